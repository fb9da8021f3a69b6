package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campuslink/internal/chat"
	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/repository"
)

// ChatHandler serves the question answering endpoint and session management.
type ChatHandler struct {
	Chat     *chat.Service
	Manager  *chat.Manager
	Sessions repository.SessionStore
}

func (h *ChatHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.POST("/ask", h.ask)
	g.GET("/sessions", h.listSessions)
	g.GET("/sessions/:id", h.getSession)
	g.POST("/sessions/:id/rate", h.rate)
	g.DELETE("/sessions/:id", h.deleteSession)
}

func (h *ChatHandler) ask(c echo.Context) error {
	userID := c.Get("user_id").(string)
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Type != "" && !models.ValidTopicType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown topic type")
	}
	answer, err := h.Chat.Ask(c.Request().Context(), userID, req.SessionID, req.Question, chat.AskOptions{
		Type:           req.Type,
		DepartmentID:   req.DepartmentID,
		Limit:          req.Limit,
		IncludeExpired: req.IncludeExpired,
	})
	if errors.Is(err, models.ErrEmptyQuestion) {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, answer)
}

func (h *ChatHandler) listSessions(c echo.Context) error {
	userID := c.Get("user_id").(string)
	sessions, err := h.Sessions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionSummary{
			ID:         s.ID,
			Title:      s.Title,
			LastActive: s.LastActive.Format(time.RFC3339),
			Messages:   len(s.Messages),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) getSession(c echo.Context) error {
	userID := c.Get("user_id").(string)
	s, err := h.Sessions.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrSessionNotFound) || (err == nil && s.UserID != userID) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ChatHandler) rate(c echo.Context) error {
	userID := c.Get("user_id").(string)
	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.Manager.Rate(c.Request().Context(), userID, c.Param("id"), req.MessageIndex, req.IsAccurate)
	if errors.Is(err, models.ErrSessionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if errors.Is(err, models.ErrMessageOutOfRange) {
		return echo.NewHTTPError(http.StatusBadRequest, "message index out of range")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

func (h *ChatHandler) deleteSession(c echo.Context) error {
	userID := c.Get("user_id").(string)
	err := h.Sessions.Delete(c.Request().Context(), c.Param("id"), userID)
	if errors.Is(err, models.ErrSessionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}
