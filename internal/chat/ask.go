// Package chat composes intent analysis, retrieval, context assembly and the
// language model into one question/answer exchange, and manages the
// conversation sessions those exchanges accumulate in.
package chat

import (
	"context"
	"log"
	"strings"

	"github.com/campuslink/campuslink/internal/assembler"
	"github.com/campuslink/campuslink/internal/intent"
	"github.com/campuslink/campuslink/internal/retrieval"
	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/provider"
)

// FallbackContent is returned when the language model is unavailable. The
// retrieved topics still accompany it so the client can show related items.
const FallbackContent = "Xin lỗi, trợ lý hiện chưa thể trả lời. Vui lòng thử lại sau ít phút. " +
	"(Sorry, the assistant cannot answer right now. Please try again in a few minutes.)"

// DepartmentSource supplies the directory used for contact lookups and
// department display names.
type DepartmentSource interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
}

// AskOptions narrows retrieval for one exchange.
type AskOptions struct {
	Type           models.TopicType
	DepartmentID   string
	Limit          int
	IncludeExpired bool
}

// TopicRef is the compact projection of a retrieved topic for UI display.
type TopicRef struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Type       models.TopicType `json:"type"`
	Department string           `json:"department,omitempty"`
}

// Answer is the result of one exchange.
type Answer struct {
	SessionID        string          `json:"session_id"`
	Content          string          `json:"content"`
	RelevantTopics   []TopicRef      `json:"relevant_topics"`
	Intent           string          `json:"intent,omitempty"`
	QueryType        string          `json:"query_type,omitempty"`
	Entities         models.Entities `json:"entities,omitempty"`
	Model            string          `json:"model,omitempty"`
	PromptTokens     int64           `json:"prompt_tokens,omitempty"`
	CompletionTokens int64           `json:"completion_tokens,omitempty"`
}

// Service orchestrates one request/response cycle.
type Service struct {
	analyzer    *intent.Analyzer
	engine      *retrieval.Engine
	sessions    *Manager
	llm         provider.LanguageModel
	departments DepartmentSource
	logger      *log.Logger
}

// NewService wires the orchestrator. departments may be nil; contact lookups
// are then skipped.
func NewService(analyzer *intent.Analyzer, engine *retrieval.Engine, sessions *Manager, llm provider.LanguageModel, departments DepartmentSource, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), "[ASK] ", log.LstdFlags)
	}
	return &Service{
		analyzer:    analyzer,
		engine:      engine,
		sessions:    sessions,
		llm:         llm,
		departments: departments,
		logger:      logger,
	}
}

// Ask answers question inside the user's session. Only invalid input and
// retrieval failures surface as errors; analysis and generation degrade.
func (s *Service) Ask(ctx context.Context, userID, sessionID, question string, opts AskOptions) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, models.ErrEmptyQuestion
	}

	// One classification per request, shared by retrieval and the response
	// metadata.
	analysis := s.analyzer.Analyze(ctx, question)

	topics, err := s.engine.Search(ctx, question, retrieval.Options{
		Type:           opts.Type,
		DepartmentID:   opts.DepartmentID,
		Limit:          opts.Limit,
		IncludeExpired: opts.IncludeExpired,
		Analysis:       analysis,
		NoAnalysis:     analysis == nil,
	})
	if err != nil {
		return Answer{}, err
	}

	contact := s.contactBlock(ctx, question)
	topicContext := assembler.FormatContext(topics)

	session, err := s.sessions.GetOrCreate(ctx, userID, sessionID)
	if err != nil {
		return Answer{}, err
	}
	history := s.sessions.WindowHistory(session, 0)
	messages := assembler.BuildMessages(contact, topicContext, history, question)

	s.sessions.AppendTurn(&session, models.RoleUser, question)

	content := FallbackContent
	var completion provider.Completion
	completion, genErr := s.llm.Complete(ctx, messages)
	if genErr != nil {
		generationFallbacks.Inc()
		s.logger.Printf("generation failed, serving fallback content: %v", genErr)
	} else {
		content = completion.Content
	}

	s.sessions.AppendTurn(&session, models.RoleAssistant, content)
	s.sessions.MaybeSetTitle(&session, question)

	if err := s.sessions.Save(ctx, session); err != nil {
		// The answer is already produced; losing one turn of history is
		// preferable to failing the exchange.
		s.logger.Printf("failed to persist session %s: %v", session.ID, err)
	}

	answer := Answer{
		SessionID:        session.ID,
		Content:          content,
		RelevantTopics:   topicRefs(topics),
		Model:            completion.Model,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
	}
	if analysis != nil {
		answer.Intent = analysis.Intent
		answer.QueryType = analysis.QueryType
		answer.Entities = analysis.Entities
	}
	return answer, nil
}

func (s *Service) contactBlock(ctx context.Context, question string) string {
	if s.departments == nil {
		return ""
	}
	departments, err := s.departments.ListDepartments(ctx)
	if err != nil {
		// The directory is optional enrichment; the exchange continues.
		s.logger.Printf("failed to load department directory: %v", err)
		return ""
	}
	return assembler.ContactDirectory(question, departments)
}

func topicRefs(topics []models.Topic) []TopicRef {
	refs := make([]TopicRef, 0, len(topics))
	for _, t := range topics {
		refs = append(refs, TopicRef{
			ID:         t.ID,
			Title:      t.Title,
			Type:       t.Type,
			Department: t.DepartmentName,
		})
	}
	return refs
}
