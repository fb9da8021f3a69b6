package server

import "github.com/campuslink/campuslink/models"

// HTTPError is the unified error payload.
type HTTPError struct {
	Error string `json:"error"`
}

type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// AskRequest is the chat endpoint payload. Filters are optional.
type AskRequest struct {
	Question       string           `json:"question"`
	SessionID      string           `json:"session_id,omitempty"`
	Type           models.TopicType `json:"type,omitempty"`
	DepartmentID   string           `json:"department_id,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	IncludeExpired bool             `json:"include_expired,omitempty"`
}

type RateRequest struct {
	MessageIndex int  `json:"message_index"`
	IsAccurate   bool `json:"is_accurate"`
}

// SessionSummary is the list projection of a chat session.
type SessionSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	LastActive string `json:"last_active"`
	Messages   int    `json:"messages"`
}
