package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campuslink/internal/retrieval"
	"github.com/campuslink/campuslink/internal/store"
	"github.com/campuslink/campuslink/models"
)

// TopicsHandler serves topic CRUD and keeps the search index in step with
// every write.
type TopicsHandler struct {
	Store *store.Store
	Index *retrieval.Index
}

func (h *TopicsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *TopicsHandler) list(c echo.Context) error {
	f := models.TopicFilter{
		Type:         models.TopicType(c.QueryParam("type")),
		DepartmentID: c.QueryParam("department_id"),
	}
	if f.Type != "" && !models.ValidTopicType(f.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown topic type")
	}
	items, err := h.Store.ListTopics(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TopicsHandler) get(c echo.Context) error {
	t, err := h.Store.GetTopic(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrTopicNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TopicsHandler) create(c echo.Context) error {
	var t models.Topic
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.CreatedBy = c.Get("user_id").(string)
	id, err := h.Store.CreateTopic(c.Request().Context(), t)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.Index.IndexTopic(t); err != nil {
		log.Printf("indexing topic %s: %v", id, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (h *TopicsHandler) update(c echo.Context) error {
	var t models.Topic
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = c.Param("id")
	err := h.Store.UpdateTopic(c.Request().Context(), t)
	if errors.Is(err, models.ErrTopicNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.Index.IndexTopic(t); err != nil {
		log.Printf("reindexing topic %s: %v", t.ID, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *TopicsHandler) delete(c echo.Context) error {
	id := c.Param("id")
	err := h.Store.DeleteTopic(c.Request().Context(), id)
	if errors.Is(err, models.ErrTopicNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.Index.Remove(id); err != nil {
		log.Printf("removing topic %s from index: %v", id, err)
	}
	return c.NoContent(http.StatusOK)
}

// DepartmentsHandler serves the department directory.
type DepartmentsHandler struct {
	Store *store.Store
}

func (h *DepartmentsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.GET("", h.list)
}

func (h *DepartmentsHandler) list(c echo.Context) error {
	items, err := h.Store.ListDepartments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
