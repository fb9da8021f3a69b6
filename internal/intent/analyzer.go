// Package intent wraps the external NLP classification capability and
// normalizes its output into a typed Analysis. Classification is best-effort
// enrichment: every failure degrades to nil so retrieval can fall back to
// local lexicon matching.
package intent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/campuslink/campuslink/internal/helpers"
	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/provider"
)

// Analyzer classifies questions via an injected NlpClassifier.
type Analyzer struct {
	nlp    provider.NlpClassifier
	logger *log.Logger
}

// NewAnalyzer builds an Analyzer. nlp may be nil, in which case Analyze always
// returns nil and consumers use the lexicon alone.
func NewAnalyzer(nlp provider.NlpClassifier, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(log.Writer(), "[INTENT] ", log.LstdFlags)
	}
	return &Analyzer{nlp: nlp, logger: logger}
}

// Analyze classifies question. It never returns an error: transport failures,
// fence-wrapped garbage and malformed JSON all convert to nil.
func (a *Analyzer) Analyze(ctx context.Context, question string) *models.Analysis {
	if a == nil || a.nlp == nil {
		return nil
	}
	if strings.TrimSpace(question) == "" {
		return nil
	}

	raw, err := a.nlp.Analyze(ctx, question)
	if err != nil {
		a.logger.Printf("classifier call failed, falling back to lexicon: %v", err)
		return nil
	}

	payload, err := helpers.ExtractJSON(raw)
	if err != nil {
		a.logger.Printf("classifier response had no JSON, falling back to lexicon: %v", err)
		return nil
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		a.logger.Printf("classifier response failed to parse, falling back to lexicon: %v", err)
		return nil
	}
	if analysis.Intent == "" && len(analysis.Keywords) == 0 {
		// Shape parsed but carries nothing usable.
		return nil
	}
	return &analysis
}
