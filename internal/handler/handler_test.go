package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/i18n"
	"github.com/pavelanni/scorecard/internal/model"
)

type stubGenerator struct {
	narrative string
	err       error
}

func (s stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.narrative, s.err
}

const validBody = `[{
  "totalMarkScored": 4,
  "totalMarks": 300,
  "totalTimeTaken": 60,
  "totalAttempted": 1,
  "totalCorrect": 1,
  "accuracy": 100,
  "test": {"totalQuestions": 1},
  "subjects": [{
    "subjectId": {"$oid": "607018ee404ae53194e73d92"},
    "totalMarkScored": 4,
    "totalMarks": 100,
    "totalTimeTaken": 60,
    "totalAttempted": 1,
    "totalCorrect": 1,
    "accuracy": 100
  }],
  "sections": [{
    "sectionId": {"title": "Physics Single Correct"},
    "questions": [{
      "questionId": {
        "chapters": [{"title": "Electrostatics"}],
        "level": "easy",
        "concepts": [{"title": "Coulombs Law"}]
      },
      "status": "answered",
      "timeTaken": 60,
      "markedOptions": [{"isCorrect": true}]
    }]
  }]
}]`

func newTestServer(t *testing.T, g stubGenerator) *httptest.Server {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n init: %v", err)
	}
	h, err := New(g, aggregate.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	h.Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzeReturnsAggregate(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("POST /api/analyze: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var res model.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Overall.TotalMarksScored != 4 {
		t.Errorf("overall marks = %v, want 4", res.Overall.TotalMarksScored)
	}
	sub, ok := res.Subjects["Physics"]
	if !ok {
		t.Fatalf("Physics subject missing: %v", res.Subjects)
	}
	if sub.Correct != 1 {
		t.Errorf("Physics correct = %d, want 1", sub.Correct)
	}
	ch, ok := res.Chapters["Physics"]["Electrostatics"]
	if !ok {
		t.Fatal("Electrostatics chapter missing")
	}
	if ch.Correct != 1 || ch.Answered != 1 {
		t.Errorf("chapter counts = %+v, want 1 correct, 1 answered", ch)
	}
}

func TestAnalyzeRejectsMalformedInput(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	for _, body := range []string{"{}", "not json", "[]"} {
		resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /api/analyze: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestReportReturnsPDF(t *testing.T) {
	narrative := "Overall Performance\nYou scored 4 out of 300 marks.\n\nActionable Suggestions\nKeep practicing.\n"
	srv := newTestServer(t, stubGenerator{narrative: narrative})

	resp, err := http.Post(srv.URL+"/api/report", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("POST /api/report: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}

	buf := make([]byte, 5)
	if _, err := resp.Body.Read(buf); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(buf) != "%PDF-" {
		t.Errorf("body starts with %q, want %%PDF-", buf)
	}
}

func TestReportUsesFallbackOnGenerationError(t *testing.T) {
	srv := newTestServer(t, stubGenerator{err: errors.New("upstream down")})

	resp, err := http.Post(srv.URL+"/api/report", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("POST /api/report: %v", err)
	}
	defer resp.Body.Close()

	// Generation failure degrades to the fallback narrative, not an error.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
}

func TestReportRejectsMalformedInput(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	resp, err := http.Post(srv.URL+"/api/report", "application/json", strings.NewReader("[1, 2]"))
	if err != nil {
		t.Fatalf("POST /api/report: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
