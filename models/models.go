package models

import (
	"errors"
	"time"
)

// ErrTopicNotFound is returned when a topic is not found
var ErrTopicNotFound = errors.New("topic not found")

// ErrSessionNotFound is returned when a chat session is not found
var ErrSessionNotFound = errors.New("chat session not found")

// ErrEmptyQuestion is returned when a question is empty after trimming
var ErrEmptyQuestion = errors.New("question is required")

// ErrMessageOutOfRange is returned when a rating addresses a message index that
// does not exist or does not belong to an assistant turn
var ErrMessageOutOfRange = errors.New("message index out of range")

// TopicType is the closed set of institutional record categories.
type TopicType string

const (
	TypeEvent           TopicType = "event"
	TypeScholarship     TopicType = "scholarship"
	TypeNotification    TopicType = "notification"
	TypeJob             TopicType = "job"
	TypeAdvertisement   TopicType = "advertisement"
	TypeInternship      TopicType = "internship"
	TypeRecruitment     TopicType = "recruitment"
	TypeVolunteer       TopicType = "volunteer"
	TypeExtracurricular TopicType = "extracurricular"
)

// TopicTypes lists every valid topic type.
var TopicTypes = []TopicType{
	TypeEvent, TypeScholarship, TypeNotification, TypeJob, TypeAdvertisement,
	TypeInternship, TypeRecruitment, TypeVolunteer, TypeExtracurricular,
}

// ValidTopicType reports whether t is one of the nine known types.
func ValidTopicType(t TopicType) bool {
	for _, known := range TopicTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Topic is the polymorphic institutional record that the retrieval engine
// operates on. Which optional fields are populated depends on Type; presence
// is by convention, not schema.
type Topic struct {
	ID          string    `json:"id"`
	Type        TopicType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	// DepartmentID is empty for general topics that apply to all departments.
	DepartmentID   string `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`

	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	Location           string `json:"location,omitempty"`
	Organizer          string `json:"organizer,omitempty"`
	Requirements       string `json:"requirements,omitempty"`
	Value              string `json:"value,omitempty"`
	Provider           string `json:"provider,omitempty"`
	Eligibility        string `json:"eligibility,omitempty"`
	ApplicationProcess string `json:"application_process,omitempty"`
	Company            string `json:"company,omitempty"`
	Salary             string `json:"salary,omitempty"`
	Position           string `json:"position,omitempty"`
	ContactInfo        string `json:"contact_info,omitempty"`
	IsImportant        bool   `json:"is_important,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Score is the search-engine relevance score for the query that produced
	// this topic. Transient, never persisted.
	Score float64 `json:"score,omitempty"`
}

// TopicFilter narrows a topic listing. Zero values mean unconstrained.
type TopicFilter struct {
	Type         TopicType
	DepartmentID string
}

// Entities groups the named entities extracted from a question.
type Entities struct {
	Dates         []string `json:"dates,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Departments   []string `json:"departments,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
}

// Analysis is the normalized result of intent classification. A nil *Analysis
// means classification failed and callers should fall back to lexicon matching.
type Analysis struct {
	Intent           string   `json:"intent"`
	Keywords         []string `json:"keywords"`
	ExpandedKeywords []string `json:"expandedKeywords,omitempty"`
	Entities         Entities `json:"entities"`
	QueryType        string   `json:"queryType"`     // search, info, question, comparison
	TimeReference    string   `json:"timeReference"` // past, present, future, any
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn in a conversation.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// IsAccurate is the user's rating of an assistant turn; nil when unrated.
	IsAccurate *bool `json:"is_accurate,omitempty"`
}

// ChatSession is the durable multi-turn conversation state for one user.
type ChatSession struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Title      string        `json:"title"`
	Messages   []ChatMessage `json:"messages"`
	LastActive time.Time     `json:"last_active"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Department is a directory entry topics may reference.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Room        string `json:"room,omitempty"`
	Description string `json:"description,omitempty"`
}
