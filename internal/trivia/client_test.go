package trivia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-process stand-in for opentdb.com. Each endpoint serves a
// scripted list of replies; the last one repeats.
type fakeAPI struct {
	mu         sync.Mutex
	questions  []fakeReply
	categories []fakeReply
	tokens     []fakeReply
	queries    map[string][]url.Values
}

type fakeReply struct {
	status int
	body   any
	delay  time.Duration
}

func (f *fakeAPI) next(path string, replies *[]fakeReply, q url.Values) fakeReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queries == nil {
		f.queries = make(map[string][]url.Values)
	}
	f.queries[path] = append(f.queries[path], q)
	if len(*replies) == 0 {
		return fakeReply{status: http.StatusNotFound}
	}
	r := (*replies)[0]
	if len(*replies) > 1 {
		*replies = (*replies)[1:]
	}
	return r
}

func (f *fakeAPI) calls(path string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var reply fakeReply
	switch r.URL.Path {
	case "/api.php":
		reply = f.next(r.URL.Path, &f.questions, r.URL.Query())
	case "/api_category.php":
		reply = f.next(r.URL.Path, &f.categories, r.URL.Query())
	case "/api_token.php":
		reply = f.next(r.URL.Path, &f.tokens, r.URL.Query())
	default:
		http.NotFound(w, r)
		return
	}

	if reply.delay > 0 {
		select {
		case <-time.After(reply.delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.status != 0 && reply.status != http.StatusOK {
		w.WriteHeader(reply.status)
	}
	switch b := reply.body.(type) {
	case nil:
	case string:
		io.WriteString(w, b)
	default:
		json.NewEncoder(w).Encode(b)
	}
}

func ok(body any) fakeReply { return fakeReply{status: http.StatusOK, body: body} }

func questionsPayload(code int, qs ...map[string]any) map[string]any {
	if qs == nil {
		qs = []map[string]any{}
	}
	return map[string]any{"response_code": code, "results": qs}
}

func sampleQuestion(category, difficulty string) map[string]any {
	return map[string]any{
		"type":              "multiple",
		"difficulty":        difficulty,
		"category":          category,
		"question":          "What is 2 &amp; 2?",
		"correct_answer":    "4",
		"incorrect_answers": []string{"1", "2", "3"},
	}
}

func tokenPayload(token string) map[string]any {
	return map[string]any{"response_code": 0, "response_message": "Token Generated Successfully!", "token": token}
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *MemoryTokenStore, *bytes.Buffer) {
	t.Helper()
	return newTestClientWith(t, api, nil)
}

// newTestClientWith is newTestClient with a hook to adjust the config before
// the client is built.
func newTestClientWith(t *testing.T, api *fakeAPI, adjust func(*Config)) (*Client, *MemoryTokenStore, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.QuestionsURL = server.URL + "/api.php"
	cfg.CategoriesURL = server.URL + "/api_category.php"
	cfg.TokenURL = server.URL + "/api_token.php"
	cfg.RequestTimeout = 2 * time.Second
	cfg.Retry = RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, Multiplier: 2.0}
	if adjust != nil {
		adjust(&cfg)
	}

	tokens := &MemoryTokenStore{}
	var warn bytes.Buffer
	c := NewClient(cfg, NewHTTPTransport(cfg, server.Client()), tokens, WithWarnings(&warn))
	return c, tokens, &warn
}

func TestFetchCategories(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{ok(map[string]any{
		"trivia_categories": []map[string]any{
			{"id": 9, "name": "General Knowledge"},
			{"id": 17, "name": "Science &amp; Nature"},
		},
	})}}
	c, _, _ := newTestClient(t, api)

	cats, err := c.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{
		{ID: 9, Name: "General Knowledge"},
		{ID: 17, Name: "Science &amp; Nature"},
	}, cats)
}

func TestFetchCategories_RateLimitExhausted(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{{status: http.StatusTooManyRequests}}}
	c, _, _ := newTestClient(t, api)

	_, err := c.FetchCategories(context.Background())
	require.Error(t, err)
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
	assert.Len(t, api.calls("/api_category.php"), 3)
}

func TestFetchCategories_RateLimitThenSuccess(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{
		{status: http.StatusTooManyRequests},
		ok(map[string]any{"trivia_categories": []map[string]any{{"id": 9, "name": "General Knowledge"}}}),
	}}
	c, _, _ := newTestClient(t, api)

	cats, err := c.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Len(t, api.calls("/api_category.php"), 2)
}

func TestFetchCategories_ServerErrorNotRetried(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{{status: http.StatusInternalServerError}}}
	c, _, _ := newTestClient(t, api)

	_, err := c.FetchCategories(context.Background())
	var te *ErrTransport
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Len(t, api.calls("/api_category.php"), 1)
}

func TestFetchCategories_ContractViolation(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{ok(map[string]any{"categories": []string{"x"}})}}
	c, _, _ := newTestClient(t, api)

	_, err := c.FetchCategories(context.Background())
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
}

func TestFetchCategories_RequestTimeout(t *testing.T) {
	api := &fakeAPI{categories: []fakeReply{{status: http.StatusOK, body: `{}`, delay: time.Second}}}
	c, _, _ := newTestClient(t, api)
	c.cfg.RequestTimeout = 20 * time.Millisecond

	_, err := c.FetchCategories(context.Background())
	var te *ErrTransport
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, api.calls("/api_category.php"), 1)
}

func TestFetchQuestions_Success(t *testing.T) {
	api := &fakeAPI{
		tokens: []fakeReply{ok(tokenPayload("tok-1"))},
		questions: []fakeReply{ok(questionsPayload(0,
			sampleQuestion("Science: Computers", "easy"),
			sampleQuestion("History", "hard"),
		))},
	}
	c, tokens, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 50)
	require.Equal(t, StatusOK, out.Status)
	require.NoError(t, out.Err)
	require.Len(t, out.Questions, 2)
	assert.Equal(t, DifficultyEasy, out.Questions[0].Difficulty)
	assert.Equal(t, []string{"1", "2", "3"}, out.Questions[0].IncorrectAnswers)

	calls := api.calls("/api.php")
	require.Len(t, calls, 1)
	q := calls[0]
	assert.Equal(t, "50", q.Get("amount"))
	assert.Equal(t, "multiple", q.Get("type"))
	assert.Equal(t, "tok-1", q.Get("token"))
	assert.False(t, q.Has("category"), "category must be omitted for all categories")

	cached, found, _ := tokens.Get(context.Background())
	assert.True(t, found)
	assert.Equal(t, "tok-1", cached)
}

func TestFetchQuestions_WithCategoryAndClampedAmount(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{ok(questionsPayload(0, sampleQuestion("Science: Computers", "easy")))},
	}
	c, _, _ := newTestClient(t, api)

	id := 18
	out := c.FetchQuestions(context.Background(), &id, 120)
	require.Equal(t, StatusOK, out.Status)

	q := api.calls("/api.php")[0]
	assert.Equal(t, "18", q.Get("category"))
	assert.Equal(t, "50", q.Get("amount"))
}

func TestFetchQuestions_WithoutTokenWhenTokenEndpointFails(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{{status: http.StatusInternalServerError}},
		questions: []fakeReply{ok(questionsPayload(0, sampleQuestion("History", "medium")))},
	}
	c, _, warn := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	require.Equal(t, StatusOK, out.Status)
	assert.False(t, api.calls("/api.php")[0].Has("token"))
	assert.Contains(t, warn.String(), "failed to get session token")
}

func TestFetchQuestions_TokenRequestTimesOut(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{{status: http.StatusOK, body: tokenPayload("late"), delay: 2 * time.Second}},
		questions: []fakeReply{ok(questionsPayload(0, sampleQuestion("History", "easy")))},
	}
	c, tokens, warn := newTestClientWith(t, api, func(cfg *Config) {
		cfg.RequestTimeout = 50 * time.Millisecond
	})

	start := time.Now()
	out := c.FetchQuestions(context.Background(), nil, 1)
	elapsed := time.Since(start)

	require.Equal(t, StatusOK, out.Status)
	assert.Less(t, elapsed, time.Second, "token request must not outlive the request timeout")
	require.Len(t, api.calls("/api.php"), 1)
	assert.False(t, api.calls("/api.php")[0].Has("token"))
	assert.Contains(t, warn.String(), "failed to get session token")
	assert.Contains(t, warn.String(), "timed out")

	_, cached, _ := tokens.Get(context.Background())
	assert.False(t, cached)
}

func TestFetchQuestions_NoResults(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{ok(questionsPayload(1))},
	}
	c, _, warn := newTestClient(t, api)

	id := 9
	out := c.FetchQuestions(context.Background(), &id, 10)
	assert.Equal(t, StatusEmpty, out.Status)
	assert.NoError(t, out.Err)
	assert.NotNil(t, out.Questions)
	assert.Empty(t, out.Questions)
	assert.Contains(t, warn.String(), "no questions were found for category 9")
}

func TestFetchQuestions_InvalidParameterFails(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{ok(questionsPayload(2))},
	}
	c, _, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Empty(t, out.Questions)
	var rc *ErrResponseCode
	require.ErrorAs(t, out.Err, &rc)
	assert.Equal(t, CodeInvalidParameter, rc.Code)
	assert.Len(t, api.calls("/api.php"), 1)
}

func TestFetchQuestions_TokenEmptyRefreshesToken(t *testing.T) {
	api := &fakeAPI{
		tokens: []fakeReply{
			ok(tokenPayload("old")),
			ok(tokenPayload("new")),
		},
		questions: []fakeReply{
			ok(questionsPayload(4)),
			ok(questionsPayload(0, sampleQuestion("History", "easy"))),
		},
	}
	c, tokens, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	require.Equal(t, StatusOK, out.Status)

	calls := api.calls("/api.php")
	require.Len(t, calls, 2)
	assert.Equal(t, "old", calls[0].Get("token"))
	assert.Equal(t, "new", calls[1].Get("token"))
	assert.Len(t, api.calls("/api_token.php"), 2)

	cached, _, _ := tokens.Get(context.Background())
	assert.Equal(t, "new", cached)
}

func TestFetchQuestions_TokenRejectedEveryTimeFails(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{ok(questionsPayload(3))},
	}
	c, tokens, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	assert.Equal(t, StatusFailed, out.Status)
	var ti *ErrTokenInvalid
	assert.ErrorAs(t, out.Err, &ti)
	assert.Len(t, api.calls("/api.php"), 3)

	_, found, _ := tokens.Get(context.Background())
	assert.False(t, found, "a rejected token must not stay cached")
}

func TestFetchQuestions_RateLimitExhaustedIsAbsorbed(t *testing.T) {
	api := &fakeAPI{
		tokens:    []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{{status: http.StatusTooManyRequests}},
	}
	c, _, warn := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	assert.Equal(t, StatusFailed, out.Status)
	assert.NotNil(t, out.Questions)
	var rl *ErrRateLimit
	assert.ErrorAs(t, out.Err, &rl)
	assert.Contains(t, warn.String(), "error: fetch questions for category all")
}

func TestFetchQuestions_MalformedResults(t *testing.T) {
	api := &fakeAPI{
		tokens: []fakeReply{ok(tokenPayload("tok"))},
		questions: []fakeReply{ok(map[string]any{
			"response_code": 0,
			"results":       []map[string]any{{"category": "History"}},
		})},
	}
	c, _, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 10)
	assert.Equal(t, StatusFailed, out.Status)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, out.Err, &inv)
}

func TestFetchQuestions_InvalidAmount(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newTestClient(t, api)

	out := c.FetchQuestions(context.Background(), nil, 0)
	assert.Equal(t, StatusFailed, out.Status)
	assert.True(t, errors.Is(out.Err, ErrInvalidAmount))
	assert.Empty(t, api.calls("/api.php"))
	assert.Empty(t, api.calls("/api_token.php"))
}
