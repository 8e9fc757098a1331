package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kronoshq/kronos/pkg/eventstream"
	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/timeline"
)

// SessionSummary is the compact session representation returned by list.
type SessionSummary struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	AudioClips   int    `json:"audio_clips"`
	VisualClips  int    `json:"visual_clips"`
	PendingCount int    `json:"pending_count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleCreateSession creates a session over an optional initial timeline.
// An empty body starts an empty timeline.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var t timeline.Timeline

	if len(c.Body()) > 0 {
		parsed, err := timeline.Parse(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
		}
		t = parsed
	}

	sess, err := s.store.Create(c.Context(), session.New(t))
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to create session"})
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeSessionCreated, sess.ID).
		WithTrackSizes(len(sess.Timeline.AudioTrack), len(sess.Timeline.VisualTrack)))

	return c.Status(fiber.StatusCreated).JSON(sess)
}

// handleListSessions returns summaries of all sessions.
func (s *Server) handleListSessions(c *fiber.Ctx) error {
	sessions, err := s.store.List(c.Context())
	if err != nil {
		s.logger.Error("failed to list sessions", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list sessions"})
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:           sess.ID,
			CreatedAt:    sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:    sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			AudioClips:   len(sess.Timeline.AudioTrack),
			VisualClips:  len(sess.Timeline.VisualTrack),
			PendingCount: len(sess.Pending),
		})
	}

	return c.JSON(map[string]any{
		"count":    len(summaries),
		"sessions": summaries,
	})
}

// handleGetSession returns a full session by id.
func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}
	return c.JSON(sess)
}

// handleDeleteSession removes a session.
func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Context(), c.Params("id")); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to delete session"})
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeSessionDeleted, c.Params("id")))

	return c.SendStatus(fiber.StatusNoContent)
}

// getSession loads the session named by the :id route param. On failure the
// error response has already been written and ok is false.
func (s *Server) getSession(c *fiber.Ctx) (*session.Session, bool) {
	id := c.Params("id")
	if id == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "id parameter required"})
		return nil, false
	}

	sess, err := s.store.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
			return nil, false
		}
		s.logger.Error("failed to get session", "id", id, "error", err)
		_ = c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to get session"})
		return nil, false
	}

	return sess, true
}
