package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCaller struct {
	mu        sync.Mutex
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeCaller) GenerateContent(_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls >= len(f.responses) {
		return nil, errors.New("unexpected call")
	}
	res := f.responses[f.calls]
	f.calls++
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func silenceWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	silenceWait(t)

	caller := &fakeCaller{responses: []fakeResponse{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse("retry ok")},
	}}

	g := &Generator{models: caller, model: "gemini-2.0-flash", maxRetries: 2, logger: zap.NewNop()}

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	silenceWait(t)

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	caller := &fakeCaller{responses: []fakeResponse{{err: tempErr}, {err: tempErr}}}

	g := &Generator{models: caller, model: "gemini-2.0-flash", maxRetries: 2, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}
}

func TestGeneratorDoesNotRetryOnClientError(t *testing.T) {
	caller := &fakeCaller{responses: []fakeResponse{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	}}

	g := &Generator{models: caller, model: "gemini-2.0-flash", maxRetries: 3, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for client failure")
	}
	if caller.calls != 1 {
		t.Fatalf("expected single call, got %d", caller.calls)
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	caller := &fakeCaller{responses: []fakeResponse{
		{err: genai.APIError{
			Code:    http.StatusTooManyRequests,
			Status:  "RESOURCE_EXHAUSTED",
			Message: "quota exhausted, retry after 60 seconds",
		}},
	}}

	g := &Generator{models: caller, model: "gemini-2.0-flash", maxRetries: 3, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if caller.calls != 1 {
		t.Fatalf("expected single call, got %d", caller.calls)
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	caller := &fakeCaller{responses: []fakeResponse{{resp: &genai.GenerateContentResponse{}}}}

	g := &Generator{models: caller, model: "gemini-2.0-flash", maxRetries: 2, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty response")
	}
	if caller.calls != 1 {
		t.Fatalf("empty responses must not be retried, got %d calls", caller.calls)
	}
}

func TestGeneratorRejectsBlankPrompt(t *testing.T) {
	g := &Generator{models: &fakeCaller{}, model: "gemini-2.0-flash", maxRetries: 1, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank prompt")
	}
}
