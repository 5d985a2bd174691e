// Package metadata turns provider completions into structured show facts.
package metadata

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"marquee/internal/providers"
)

// ShowCandidate is one show identified in a playbill image.
type ShowCandidate struct {
	ShowName    string `json:"show_name"`
	TheaterName string `json:"theater_name"`
}

// Service wraps a provider completer with the prompts and parsing the
// catalog needs. Failed calls return their error alongside an empty result
// so callers can log and keep going.
type Service struct {
	completer providers.Completer
	logger    *slog.Logger
}

// NewService constructs a metadata service over the supplied completer.
func NewService(completer providers.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{completer: completer, logger: logger}
}

// ExtractShows identifies the shows visible in a playbill photograph.
func (s *Service) ExtractShows(ctx context.Context, imageData []byte, imageMIME string) ([]ShowCandidate, error) {
	requestID := uuid.NewString()
	raw, err := s.completer.Complete(ctx, providers.Request{
		Prompt:    extractPrompt,
		ImageData: imageData,
		ImageMIME: imageMIME,
	})
	if err != nil {
		s.logger.Warn("show extraction failed", "request_id", requestID, "provider", s.completer.Name(), "error", err)
		return nil, err
	}

	var candidates []ShowCandidate
	if err := Decode(raw, &candidates); err != nil {
		s.logger.Warn("show extraction returned malformed payload", "request_id", requestID, "provider", s.completer.Name(), "error", err)
		return nil, err
	}

	kept := candidates[:0]
	for _, candidate := range candidates {
		candidate.ShowName = strings.TrimSpace(candidate.ShowName)
		candidate.TheaterName = strings.TrimSpace(candidate.TheaterName)
		if candidate.ShowName == "" {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept, nil
}

// EnrichShow asks the provider for the requested metadata fields. A nil or
// empty field list requests the full enrichable schema.
func (s *Service) EnrichShow(ctx context.Context, showName, theaterName string, fields []string) (map[string]any, error) {
	requestID := uuid.NewString()
	raw, err := s.completer.Complete(ctx, providers.Request{
		Prompt: buildEnrichPrompt(showName, theaterName, fields),
	})
	if err != nil {
		s.logger.Warn("enrichment request failed", "request_id", requestID, "provider", s.completer.Name(), "show", showName, "error", err)
		return nil, err
	}

	var values map[string]any
	if err := Decode(raw, &values); err != nil {
		s.logger.Warn("enrichment returned malformed payload", "request_id", requestID, "provider", s.completer.Name(), "show", showName, "error", err)
		return nil, err
	}
	return values, nil
}

// MatchCategories asks the provider which of the candidate categories fit a
// show's plot summary. The result only ever contains entries from
// candidates, with their original spelling.
func (s *Service) MatchCategories(ctx context.Context, showName, theaterName, plotSummary string, candidates []string) ([]string, error) {
	if len(candidates) == 0 || strings.TrimSpace(plotSummary) == "" {
		return nil, nil
	}

	requestID := uuid.NewString()
	raw, err := s.completer.Complete(ctx, providers.Request{
		Prompt: buildMatchPrompt(showName, theaterName, plotSummary, candidates),
	})
	if err != nil {
		s.logger.Warn("category match failed", "request_id", requestID, "provider", s.completer.Name(), "show", showName, "error", err)
		return nil, err
	}

	var picked []string
	if err := Decode(raw, &picked); err != nil {
		s.logger.Warn("category match returned malformed payload", "request_id", requestID, "provider", s.completer.Name(), "show", showName, "error", err)
		return nil, err
	}

	byFold := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		byFold[strings.ToLower(strings.TrimSpace(candidate))] = candidate
	}
	var matched []string
	seen := make(map[string]bool, len(picked))
	for _, name := range picked {
		canonical, ok := byFold[strings.ToLower(strings.TrimSpace(name))]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		matched = append(matched, canonical)
	}
	return matched, nil
}
