package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaboard/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect recorded trivia API requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		cycle, _ := cmd.Flags().GetString("cycle")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryRequestEvents(cmd.Context(), store.QueryOpts{
			Limit:    limit,
			Endpoint: endpoint,
			CycleID:  cycle,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-6s  %-4s  %-7s  %-8s  %s\n",
			"ID", "Timestamp", "Endpoint", "HTTP", "Code", "Ms", "Cycle", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			status := "-"
			if e.StatusCode != 0 {
				status = strconv.Itoa(e.StatusCode)
			}
			code := "-"
			if e.ResponseCode >= 0 {
				code = strconv.Itoa(e.ResponseCode)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-6s  %-4s  %-7d  %-8s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Endpoint,
				status,
				code,
				e.LatencyMs,
				shortID(e.CycleID),
				ok,
			)
		}
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View a request and its response body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetRequestEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Cycle:     %s\n", e.CycleID)
		fmt.Fprintf(out, "Endpoint:  %s\n", e.Endpoint)
		fmt.Fprintf(out, "URL:       %s\n", e.URL)
		fmt.Fprintf(out, "HTTP:      %d\n", e.StatusCode)
		if e.ResponseCode >= 0 {
			fmt.Fprintf(out, "Code:      %d\n", e.ResponseCode)
		}
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "RESPONSE")
		fmt.Fprintln(out, sep)
		if e.ResponseBody != "" {
			fmt.Fprintln(out, e.ResponseBody)
		} else {
			fmt.Fprintln(out, "(no body)")
		}
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request counts and latency per endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().UsageByEndpoint(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No requests recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Usage by Endpoint")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%-12s  %6s  %8s  %12s  %8s\n",
			"Endpoint", "Calls", "Failures", "Rate limited", "Avg Ms")
		fmt.Fprintln(out, strings.Repeat("─", 60))

		var calls, failures, limited int
		for _, u := range usage {
			fmt.Fprintf(out, "%-12s  %6d  %8d  %12d  %8d\n",
				u.Endpoint, u.Calls, u.Failures, u.RateLimited, u.AvgLatencyMs)
			calls += u.Calls
			failures += u.Failures
			limited += u.RateLimited
		}
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%-12s  %6d  %8d  %12d\n", "TOTAL", calls, failures, limited)
		return nil
	},
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Maximum number of requests to show")
	requestsListCmd.Flags().StringP("endpoint", "e", "", "Only show this endpoint (questions, categories, token)")
	requestsListCmd.Flags().String("cycle", "", "Only show requests from this load cycle")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}

// shortID abbreviates a load cycle UUID for tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
