package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/core/engine"
	apperrors "github.com/hide0128/finder/internal/errors"
	"github.com/hide0128/finder/internal/metrics"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/output"
)

// Searcher runs one settled lookup per name. *engine.Orchestrator satisfies it.
type Searcher interface {
	Search(ctx context.Context, names []string) (engine.Outcome, error)
}

// FinderAPI serves the /v1 routes.
type FinderAPI struct {
	Searcher Searcher
	// Render carries the sentinel and blank-unknown settings used by export.
	Render output.Options
}

// TextRequest is the body of /v1/normalize and /v1/lookup.
type TextRequest struct {
	Text string `json:"text"`
}

// NormalizeResponse lists the names that would be looked up.
type NormalizeResponse struct {
	Candidates    []string         `json:"candidates"`
	Rejected      []core.Rejection `json:"rejected"`
	NonEmptyLines int              `json:"non_empty_lines"`
}

// LookupResponse is the body of /v1/lookup. Results keep input order and
// include failures; Report summarizes them.
type LookupResponse struct {
	BatchID  string              `json:"batch_id"`
	Results  []core.LookupResult `json:"results"`
	Rejected []core.Rejection    `json:"rejected"`
	Report   engine.Report       `json:"report"`
}

// ExportRequest is the body of /v1/export.
type ExportRequest struct {
	Results []core.LookupResult `json:"results"`
	Columns []string            `json:"columns,omitempty"`
	// Format defaults to xlsx.
	Format       string `json:"format,omitempty"`
	BlankUnknown *bool  `json:"blank_unknown,omitempty"`
}

const noExportRows = "エクスポートする検索結果がありません。"

// Normalize serves POST /v1/normalize.
func (a *FinderAPI) Normalize(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeBody(w, r, &req) {
		return
	}

	batch, ok := prepare(w, r, req.Text)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, NormalizeResponse{
		Candidates:    batch.Candidates,
		Rejected:      nonNilRejections(batch.Rejected),
		NonEmptyLines: batch.NonEmptyLines,
	})
}

// Lookup serves POST /v1/lookup. A batch in which every lookup failed is
// still a 200: per-name errors are data, not a request failure.
func (a *FinderAPI) Lookup(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeBody(w, r, &req) {
		return
	}

	batch, ok := prepare(w, r, req.Text)
	if !ok {
		return
	}

	if a.Searcher == nil {
		respondWithError(w, r, apperrors.NewUnavailableError("lookup provider is not configured"))
		return
	}

	outcome, err := a.Searcher.Search(r.Context(), batch.Candidates)
	if err != nil {
		metrics.RecordOperationError("lookup", "search_failed")
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "lookup failed"))
		return
	}

	report := engine.Summarize(outcome)
	if report.HasError() {
		observability.Logger().Warn("Lookup batch finished with problems",
			zap.String("batch_id", outcome.BatchID),
			zap.String("kind", string(report.Kind)),
			zap.Int("successes", report.Successes),
			zap.Int("failures", report.Failures))
	}

	writeJSON(w, http.StatusOK, LookupResponse{
		BatchID:  outcome.BatchID,
		Results:  outcome.Results,
		Rejected: nonNilRejections(batch.Rejected),
		Report:   report,
	})
}

// Export serves POST /v1/export, rendering results as a download.
func (a *FinderAPI) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	format := output.FormatXLSX
	if strings.TrimSpace(req.Format) != "" {
		parsed, err := output.ParseFormat(req.Format)
		if err != nil {
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, err.Error()))
			return
		}
		format = parsed
	}

	columns, err := output.ParseColumns(strings.Join(req.Columns, ","))
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, err.Error()))
		return
	}
	if len(columns) == 0 {
		respondWithError(w, r, apperrors.NewValidationError("少なくとも1つの列を選択してください。"))
		return
	}

	if !hasSuccess(req.Results) {
		respondWithError(w, r, apperrors.NewInvalidInputError(noExportRows))
		return
	}

	opts := a.Render
	opts.Columns = columns
	if req.BlankUnknown != nil {
		opts.BlankUnknown = *req.BlankUnknown
	}

	body, err := output.Render(format, req.Results, opts)
	if err != nil {
		metrics.RecordOperationError("export", "render_failed")
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "export failed"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format.Binary() {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": output.DefaultXLSXFile,
		}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func prepare(w http.ResponseWriter, r *http.Request, text string) (core.Batch, bool) {
	batch, err := core.Prepare(text)
	metrics.RecordPrepared(len(batch.Candidates), batch.RejectedRules())
	if err != nil {
		envelope := apperrors.FromBatchError(r.Context(), err)
		if len(batch.Rejected) > 0 {
			envelope = envelope.WithDetails(map[string]interface{}{"rejected": batch.Rejected})
		}
		respondWithError(w, r, envelope)
		return batch, false
	}
	return batch, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			respondWithError(w, r, apperrors.NewPayloadTooLargeError(
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
		case stderrors.Is(err, io.EOF):
			respondWithError(w, r, apperrors.NewInvalidInputError("request body is required"))
		default:
			respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body is not valid JSON"))
		}
		return false
	}
	return true
}

func hasSuccess(results []core.LookupResult) bool {
	for i := range results {
		if results[i].Succeeded() {
			return true
		}
	}
	return false
}

func nonNilRejections(in []core.Rejection) []core.Rejection {
	if in == nil {
		return []core.Rejection{}
	}
	return in
}
