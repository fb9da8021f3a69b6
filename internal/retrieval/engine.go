// Package retrieval answers free-text questions with the most relevant,
// currently valid topics. The primary path is relevance-ranked full-text
// search over the bleve index; when it comes back empty, a substring scan
// ordered by recency takes over.
package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/campuslink/campuslink/internal/intent"
	"github.com/campuslink/campuslink/internal/lexicon"
	"github.com/campuslink/campuslink/internal/validity"
	"github.com/campuslink/campuslink/models"
)

// DefaultLimit caps result lists when the caller does not set one.
const DefaultLimit = 10

// fetchFactor oversamples the index so post-filtering by type, department and
// validity still leaves enough hits to fill the limit.
const fetchFactor = 5

// TopicSource is the read-only corpus the engine searches over.
type TopicSource interface {
	// TopicsByID resolves ids to topics, skipping ids that no longer exist.
	TopicsByID(ctx context.Context, ids []string) ([]models.Topic, error)
	// ListTopics returns topics matching the filter. A topic with no
	// department always matches a department-constrained filter.
	ListTopics(ctx context.Context, f models.TopicFilter) ([]models.Topic, error)
}

// Options tunes one search call. Zero values mean: no type constraint, no
// department constraint, DefaultLimit, exclude expired, analyze internally.
type Options struct {
	Type           models.TopicType
	DepartmentID   string
	Limit          int
	IncludeExpired bool
	Analysis       *models.Analysis
	// NoAnalysis suppresses internal classification. Set by callers that
	// already ran the analyzer and saw it degrade, so the engine does not
	// repeat the external call within the same request.
	NoAnalysis bool
}

// Engine executes the two-tier retrieval strategy.
type Engine struct {
	source   TopicSource
	index    *Index
	analyzer *intent.Analyzer
	logger   *log.Logger
	now      func() time.Time
}

// NewEngine wires the engine. analyzer may be nil; the lexicon then carries
// type detection alone.
func NewEngine(source TopicSource, index *Index, analyzer *intent.Analyzer, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	return &Engine{source: source, index: index, analyzer: analyzer, logger: logger, now: time.Now}
}

// Search retrieves up to opts.Limit topics for question. Empty results are
// valid; storage or index errors are not and propagate to the caller.
func (e *Engine) Search(ctx context.Context, question string, opts Options) ([]models.Topic, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	analysis := opts.Analysis
	if analysis == nil && !opts.NoAnalysis {
		analysis = e.analyzer.Analyze(ctx, question)
	}
	if analysis == nil {
		analysisFallbacks.Inc()
	}

	topicType := resolveType(question, analysis, opts.Type)
	query := buildQuery(question, analysis)

	primary, err := e.primarySearch(ctx, query, topicType, opts)
	if err != nil {
		return nil, err
	}
	if len(primary) > 0 {
		primarySearches.Inc()
		return primary, nil
	}

	fallback, err := e.fallbackSearch(ctx, question, topicType, opts)
	if err != nil {
		return nil, err
	}
	if len(fallback) > 0 {
		fallbackSearches.Inc()
	} else {
		emptySearches.Inc()
	}
	return fallback, nil
}

// resolveType picks the type constraint: explicit option first, then the
// analysis intent mapped through the lexicon, then the raw question.
func resolveType(question string, analysis *models.Analysis, explicit models.TopicType) models.TopicType {
	if explicit != "" {
		return explicit
	}
	if analysis != nil {
		if t, ok := lexicon.DetectType(analysis.Intent); ok {
			return t
		}
	}
	if t, ok := lexicon.DetectType(question); ok {
		return t
	}
	return ""
}

// buildQuery prefers the analysis's expanded keywords, then its keywords, then
// the raw question. Keyword lists pass through synonym expansion.
func buildQuery(question string, analysis *models.Analysis) string {
	if analysis != nil {
		if len(analysis.ExpandedKeywords) > 0 {
			return strings.Join(lexicon.ExpandKeywords(analysis.ExpandedKeywords), " ")
		}
		if len(analysis.Keywords) > 0 {
			return strings.Join(lexicon.ExpandKeywords(analysis.Keywords), " ")
		}
	}
	return question
}

func (e *Engine) primarySearch(ctx context.Context, query string, topicType models.TopicType, opts Options) ([]models.Topic, error) {
	hits, err := e.index.Search(query, opts.Limit*fetchFactor)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	scores := make(map[string]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
		scores[h.ID] = h.Score
	}
	topics, err := e.source.TopicsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving search hits: %w", err)
	}

	byID := make(map[string]models.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}

	// Walk hits in score order so the relevance ranking survives filtering.
	now := e.now()
	out := make([]models.Topic, 0, opts.Limit)
	for _, h := range hits {
		t, ok := byID[h.ID]
		if !ok {
			continue
		}
		if !matches(t, topicType, opts.DepartmentID) {
			continue
		}
		if !opts.IncludeExpired && !validity.IsActive(t, now) {
			continue
		}
		t.Score = scores[t.ID]
		out = append(out, t)
		if len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (e *Engine) fallbackSearch(ctx context.Context, question string, topicType models.TopicType, opts Options) ([]models.Topic, error) {
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return nil, nil
	}

	candidates, err := e.source.ListTopics(ctx, models.TopicFilter{Type: topicType, DepartmentID: opts.DepartmentID})
	if err != nil {
		return nil, fmt.Errorf("listing fallback candidates: %w", err)
	}

	now := e.now()
	out := make([]models.Topic, 0, opts.Limit)
	for _, t := range candidates {
		if !opts.IncludeExpired && !validity.IsActive(t, now) {
			continue
		}
		if !matchesTokens(t, tokens) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// matches applies the type and department constraints. General topics (no
// department) match any requested department.
func matches(t models.Topic, topicType models.TopicType, departmentID string) bool {
	if topicType != "" && t.Type != topicType {
		return false
	}
	if departmentID != "" && t.DepartmentID != "" && t.DepartmentID != departmentID {
		return false
	}
	return true
}

func matchesTokens(t models.Topic, tokens []string) bool {
	haystack := strings.ToLower(t.Title + " " + t.Description)
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}

// tokenize splits the raw question into lowercase words longer than two
// characters, dropping punctuation.
func tokenize(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}
