package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with raw SQL over the request_events table.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO request_events
			(timestamp, cycle_id, endpoint, url, status_code, response_code,
			 latency_ms, success, error_message, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(),
		data.CycleID,
		data.Endpoint,
		data.URL,
		data.StatusCode,
		data.ResponseCode,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

const eventColumns = `id, timestamp, cycle_id, endpoint, url, status_code,
	response_code, latency_ms, success, error_message, response_body`

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Endpoint != "" {
		where = append(where, "endpoint = ?")
		args = append(args, opts.Endpoint)
	}
	if opts.CycleID != "" {
		where = append(where, "cycle_id = ?")
		args = append(args, opts.CycleID)
	}

	q := "SELECT " + eventColumns + " FROM request_events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetRequestEvent(ctx context.Context, id int) (*RequestEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM request_events WHERE id = ?", id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT endpoint,
		       COUNT(*),
		       SUM(CASE WHEN success THEN 0 ELSE 1 END),
		       SUM(CASE WHEN status_code = 429 THEN 1 ELSE 0 END),
		       CAST(AVG(latency_ms) AS INTEGER)
		FROM request_events
		GROUP BY endpoint
		ORDER BY endpoint`)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var usage []EndpointUsage
	for rows.Next() {
		var u EndpointUsage
		if err := rows.Scan(&u.Endpoint, &u.Calls, &u.Failures, &u.RateLimited, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*RequestEvent, error) {
	var e RequestEvent
	err := s.Scan(
		&e.ID,
		&e.Timestamp,
		&e.CycleID,
		&e.Endpoint,
		&e.URL,
		&e.StatusCode,
		&e.ResponseCode,
		&e.LatencyMs,
		&e.Success,
		&e.ErrorMessage,
		&e.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	return &e, nil
}
