package recommend

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/talentsift/assessrec/internal/ai"
	"github.com/talentsift/assessrec/internal/catalog"
	"github.com/talentsift/assessrec/internal/logger"
	"go.uber.org/zap"
)

const (
	// DefaultMaxResults applies when the caller does not bound the result count.
	DefaultMaxResults = 5

	defaultMaxLogLength = 200
)

var (
	errEmptyCatalog  = errors.New("catalog is empty")
	errEmptyResponse = errors.New("oracle returned no usable assessment names")
)

// catalogSource yields the current catalog snapshot. *catalog.Provider
// implements it; each recommendation call reads exactly one snapshot.
type catalogSource interface {
	Current() *catalog.Store
}

// Recommender ranks catalog records against a free-text job requirement using
// the relevance oracle, then resolves the oracle's answer back to canonical
// catalog records.
type Recommender struct {
	catalogs      catalogSource
	generator     ai.Generator
	minSimilarity float64
	maxLogLen     int
	logger        *zap.Logger
}

// New creates a Recommender. minSimilarity > 0 enables the opt-in cutoff that
// drops resolutions below the given ratio; 0 preserves the always-match
// reference behavior.
func New(catalogs catalogSource, generator ai.Generator, minSimilarity float64, maxLogLength int, log *zap.Logger) *Recommender {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if minSimilarity < 0 {
		minSimilarity = 0
	}

	return &Recommender{
		catalogs:      catalogs,
		generator:     generator,
		minSimilarity: minSimilarity,
		maxLogLen:     maxLogLength,
		logger:        log,
	}
}

// Recommend returns up to maxResults catalog records ranked by the oracle's
// relevance judgement, most relevant first. Recommendation is best-effort
// infrastructure: every per-query failure is absorbed into an empty result,
// never an error. maxResults <= 0 falls back to DefaultMaxResults.
func (r *Recommender) Recommend(ctx context.Context, query string, maxResults int) []*catalog.Assessment {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	records, err := r.recommend(ctx, query, maxResults)
	if err != nil {
		r.logger.Warn("recommendation failed, returning no results",
			zap.String("query", logger.TruncateForLog(query, r.maxLogLen)),
			zap.Error(err),
		)
		return nil
	}

	return records
}

// recommend runs the pipeline and surfaces failures as typed errors; only
// Recommend converts them into the empty-result outcome.
func (r *Recommender) recommend(ctx context.Context, query string, maxResults int) ([]*catalog.Assessment, error) {
	store := r.catalogs.Current()
	if store.Len() == 0 {
		return nil, errEmptyCatalog
	}

	prompt := buildPrompt(query, store.DescriptionCorpus(), maxResults)

	r.logger.Debug("oracle request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("query relevance oracle: %w", err)
	}

	r.logger.Debug("oracle response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	names := parseNames(raw, maxResults)
	if len(names) == 0 {
		return nil, errEmptyResponse
	}

	// Duplicate candidates yield duplicate records on purpose: the oracle's
	// order is the ranking and is passed through untouched.
	records := make([]*catalog.Assessment, 0, len(names))
	for _, name := range names {
		record, score := resolve(name, store)
		if record == nil {
			continue
		}
		if r.minSimilarity > 0 && score < r.minSimilarity {
			r.logger.Debug("dropping low-similarity resolution",
				zap.String("candidate", name),
				zap.Float64("score", score),
				zap.Float64("threshold", r.minSimilarity),
			)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
