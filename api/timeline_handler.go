package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kronoshq/kronos/pkg/export"
	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/playback"
	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/timeline"
	"github.com/kronoshq/kronos/pkg/timeline/refine"
)

// handleGetTimeline returns the raw timeline of a session.
func (s *Server) handleGetTimeline(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}
	return c.JSON(sess.Timeline)
}

// handlePutTimeline replaces the whole timeline of a session. Staged
// proposals are discarded because they were made against the old state.
func (s *Server) handlePutTimeline(c *fiber.Ctx) error {
	t, err := timeline.Parse(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	sess, err := s.store.Mutate(c.Context(), c.Params("id"), func(sess *session.Session) error {
		sess.Timeline = t
		sess.Reject()
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
		}
		s.logger.Error("failed to replace timeline", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to replace timeline"})
	}

	return c.JSON(sess.Timeline)
}

// handleGetRefined returns the refined, annotated view of the timeline:
// derived clip ends, per-clip overlaps, per-track gaps, overlap windows,
// and scene indices.
func (s *Server) handleGetRefined(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}
	return c.JSON(refine.Refine(sess.Timeline))
}

// handlePlayback resolves the clips active at a given time. The time is the
// required query param t, in milliseconds.
func (s *Server) handlePlayback(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}

	timeMs := c.QueryInt("t", -1)
	if timeMs < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "query param t (milliseconds) is required"})
	}

	return c.JSON(playback.Resolve(sess.Snapshot(), timeMs))
}

// handleExportEDL renders the visual track as a CMX 3600 style edit decision
// list. Optional query params: title, frame_rate.
func (s *Server) handleExportEDL(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}

	title := c.Query("title", "KRONOS EXPORT")
	frameRate := float64(c.QueryInt("frame_rate", export.DefaultFrameRate))

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(export.GenerateEDL(sess.Snapshot(), title, frameRate))
}
