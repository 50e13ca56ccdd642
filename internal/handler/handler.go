package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/llm"
	"github.com/pavelanni/scorecard/internal/llm/prompts"
	"github.com/pavelanni/scorecard/internal/model"
	"github.com/pavelanni/scorecard/internal/report"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	llm    llm.Generator
	config aggregate.Config
}

// New creates a new Handler.
func New(g llm.Generator, cfg aggregate.Config) (*Handler, error) {
	return &Handler{llm: g, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/analyze", h.handleAnalyze)
	r.Post("/api/report", h.handleReport)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	res, ok := h.aggregateBody(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("encode error", "error", err)
	}
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	res, ok := h.aggregateBody(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	prompt, err := prompts.FeedbackPrompt(res, h.config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	narrative := llm.GenerateOrFallback(ctx, h.llm, prompt)

	blocks := report.ParseNarrative(narrative)
	pdf, err := report.BuildPDF(ctx, blocks, aggregate.ChartData(res), aggregate.SubjectOrder(res, h.config))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="performance_report.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		slog.Error("write error", "error", err)
	}
}

// aggregateBody decodes the attempt export from the request body and runs
// the aggregation. Malformed or empty input is a client error.
func (h *Handler) aggregateBody(w http.ResponseWriter, r *http.Request) (*model.Result, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	records, err := aggregate.Decode(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	res, err := aggregate.Aggregate(records, h.config)
	if err != nil {
		if errors.Is(err, aggregate.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return res, true
}
