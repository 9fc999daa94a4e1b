package thoughts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"thoughts-backend/internal/llm"
	"thoughts-backend/internal/shared/metrics"
	"thoughts-backend/internal/shared/telemetry"
)

// Service runs the analysis pipeline: raw text is turned into a prompt, sent
// to the completion endpoint, parsed into an AnalysisResult and persisted.
// Every failure leaves the store untouched; no partial record is committed.
type Service struct {
	Repo Repo
	LLM  llm.Client

	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit analyzes new text and appends the resulting record at the head of
// the collection. The stored text is the raw input, not the decorated prompt.
func (s *Service) Submit(ctx context.Context, text string, requestType llm.RequestType) (SavedThought, error) {
	if strings.TrimSpace(text) == "" {
		return SavedThought{}, errors.New("text is required")
	}

	analysis, err := s.analyze(ctx, llm.BuildPrompt(text, requestType))
	if err != nil {
		return SavedThought{}, err
	}

	now := s.now()
	thought := SavedThought{
		ID:        uuid.NewString(),
		Text:      text,
		Date:      FormatDate(now),
		Analysis:  analysis,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.Repo.Append(ctx, thought); err != nil {
		return SavedThought{}, fmt.Errorf("append thought: %w", err)
	}
	return thought, nil
}

// Edit replaces a record's text and triggers a full reanalysis. The id stays
// stable; text, analysis and date are replaced in place.
func (s *Service) Edit(ctx context.Context, id, text string) (SavedThought, error) {
	if strings.TrimSpace(text) == "" {
		return SavedThought{}, errors.New("text is required")
	}
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return SavedThought{}, err
	}

	analysis, err := s.analyze(ctx, llm.BuildPrompt(text, llm.RequestNone))
	if err != nil {
		return SavedThought{}, err
	}

	now := s.now()
	existing.Text = text
	existing.Analysis = analysis
	existing.Date = FormatDate(now)
	existing.UpdatedAt = now.UTC()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return SavedThought{}, fmt.Errorf("update thought: %w", err)
	}
	return existing, nil
}

// Reanalyze re-runs the analysis over a record's unchanged text and replaces
// the stored analysis. The prior analysis is discarded, never historized.
func (s *Service) Reanalyze(ctx context.Context, id string) (SavedThought, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return SavedThought{}, err
	}

	analysis, err := s.analyze(ctx, llm.BuildPrompt(existing.Text, llm.RequestNone))
	if err != nil {
		return SavedThought{}, err
	}

	now := s.now()
	existing.Analysis = analysis
	existing.Date = FormatDate(now)
	existing.UpdatedAt = now.UTC()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return SavedThought{}, fmt.Errorf("update thought: %w", err)
	}
	return existing, nil
}

// Remove deletes a record. Removing an unknown id is a logged no-op, never an
// error: it cannot be reached from normal UI flow.
func (s *Service) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := s.Repo.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove thought: %w", err)
	}
	return nil
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id string) (SavedThought, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns the collection most-recent-first.
func (s *Service) List(ctx context.Context) ([]SavedThought, error) {
	return s.Repo.All(ctx)
}

// analyze performs the single network round-trip and parses the reply. One
// outbound request per call; a failure of any class is surfaced, not retried.
func (s *Service) analyze(ctx context.Context, prompt string) (AnalysisResult, error) {
	if s.LLM == nil {
		return AnalysisResult{}, errors.New("completion client is not configured")
	}
	metrics.IncAnalysisStarted()
	start := time.Now()

	reply, err := s.LLM.Analyze(ctx, prompt)
	if err != nil {
		metrics.IncAnalysisFailed()
		if errors.Is(err, llm.ErrEmptyCompletion) {
			metrics.IncParseFailed()
			return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return AnalysisResult{}, err
	}

	analysis, err := ParseAnalysis(reply)
	if err != nil {
		metrics.IncAnalysisFailed()
		metrics.IncParseFailed()
		telemetry.Warn("thoughts.analysis.parse_failed", map[string]any{
			"reply_bytes": len(reply),
			"error":       err.Error(),
		})
		return AnalysisResult{}, err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return analysis, nil
}
