package dashboard

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/triviaboard/internal/trivia"
)

const categoriesBody = `{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":23,"name":"History"}]}`

const questionsBody = `{"response_code":0,"results":[
 {"category":"History","type":"multiple","difficulty":"easy","question":"Q1","correct_answer":"A","incorrect_answers":["B","C","D"]},
 {"category":"Science &amp; Nature","type":"multiple","difficulty":"hard","question":"Q2","correct_answer":"A","incorrect_answers":["B","C","D"]}
]}`

func testClient(mock *trivia.MockTransport) *trivia.Client {
	cfg := trivia.DefaultConfig()
	cfg.Retry.InitialWait = time.Millisecond
	return trivia.NewClient(cfg, mock, &trivia.MemoryTokenStore{}, trivia.WithWarnings(io.Discard))
}

func tokenBody() []byte {
	return []byte(`{"response_code":0,"token":"tok"}`)
}

func TestLoader_Ready(t *testing.T) {
	mock := trivia.NewMockTransport().
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Body: []byte(categoriesBody)}).
		AddResponse(trivia.EndpointToken, trivia.MockResponse{Body: tokenBody()}).
		AddResponse(trivia.EndpointQuestions, trivia.MockResponse{Body: []byte(questionsBody)})
	l := NewLoader(testClient(mock), 50)
	assert.Equal(t, PhaseIdle, l.Phase())

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, l.Phase())
	assert.Len(t, res.Categories, 2)
	assert.Len(t, res.Questions, 2)
	assert.Equal(t, trivia.StatusOK, res.QuestionStatus)
	_, parseErr := uuid.Parse(res.CycleID)
	assert.NoError(t, parseErr)

	calls := mock.CallsTo(trivia.EndpointQuestions)
	require.Len(t, calls, 1)
	assert.Equal(t, "50", calls[0].Query.Get("amount"))
	assert.False(t, calls[0].Query.Has("category"))

	last, lastErr := l.Last()
	assert.NoError(t, lastErr)
	assert.Equal(t, res.CycleID, last.CycleID)
}

func TestLoader_CategoriesFailureFailsCycle(t *testing.T) {
	mock := trivia.NewMockTransport().
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Err: &trivia.ErrTransport{StatusCode: 500, Err: errors.New("boom")}})
	l := NewLoader(testClient(mock), 50)

	_, err := l.Load(context.Background())
	var te *trivia.ErrTransport
	require.ErrorAs(t, err, &te)
	assert.Equal(t, PhaseFailed, l.Phase())
	assert.Zero(t, mock.CallCount(trivia.EndpointQuestions), "questions must not be fetched after a categories failure")

	_, lastErr := l.Last()
	assert.Equal(t, err, lastErr)
}

func TestLoader_QuestionsFailureStillReady(t *testing.T) {
	mock := trivia.NewMockTransport().
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Body: []byte(categoriesBody)}).
		AddResponse(trivia.EndpointToken, trivia.MockResponse{Body: tokenBody()}).
		AddResponse(trivia.EndpointQuestions, trivia.MockResponse{Err: &trivia.ErrTransport{Err: errors.New("reset by peer")}})
	l := NewLoader(testClient(mock), 50)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, l.Phase())
	assert.Equal(t, trivia.StatusFailed, res.QuestionStatus)
	assert.Error(t, res.QuestionErr)
	assert.Empty(t, res.Questions)
}

func TestLoader_NoResultsStillReady(t *testing.T) {
	mock := trivia.NewMockTransport().
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Body: []byte(categoriesBody)}).
		AddResponse(trivia.EndpointToken, trivia.MockResponse{Body: tokenBody()}).
		AddResponse(trivia.EndpointQuestions, trivia.MockResponse{Body: []byte(`{"response_code":1,"results":[]}`)})
	l := NewLoader(testClient(mock), 50)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trivia.StatusEmpty, res.QuestionStatus)
	assert.NotNil(t, res.Questions)
	assert.Empty(t, res.Questions)
}

// blockingFetcher holds FetchCategories open until release is closed.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) FetchCategories(ctx context.Context) ([]trivia.Category, error) {
	close(f.started)
	<-f.release
	return []trivia.Category{}, nil
}

func (f *blockingFetcher) FetchQuestions(context.Context, *int, int) trivia.Outcome {
	return trivia.Outcome{Status: trivia.StatusOK, Questions: []trivia.Question{}}
}

func TestLoader_SecondTriggerWhileLoadingIsIgnored(t *testing.T) {
	f := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	l := NewLoader(f, 50)

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background())
		done <- err
	}()

	<-f.started
	assert.Equal(t, PhaseLoading, l.Phase())

	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(f.release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseReady, l.Phase())
}

func TestLoader_ReloadAfterCompletion(t *testing.T) {
	mock := trivia.NewMockTransport().
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Body: []byte(categoriesBody)}).
		AddResponse(trivia.EndpointCategories, trivia.MockResponse{Body: []byte(categoriesBody)}).
		AddResponse(trivia.EndpointToken, trivia.MockResponse{Body: tokenBody()}).
		AddResponse(trivia.EndpointQuestions, trivia.MockResponse{Body: []byte(questionsBody)}).
		AddResponse(trivia.EndpointQuestions, trivia.MockResponse{Body: []byte(questionsBody)})
	l := NewLoader(testClient(mock), 10)

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.CycleID, second.CycleID)
	assert.Equal(t, 2, mock.CallCount(trivia.EndpointCategories))
	// The cached token is reused by the second cycle.
	assert.Equal(t, 1, mock.CallCount(trivia.EndpointToken))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
