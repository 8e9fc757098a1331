package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kronoshq/kronos/pkg/eventstream"
	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/session"
)

// ChatRequest is the body of the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the chat endpoint. Proposed mutations are
// staged on the session; they are not applied until accepted.
type ChatResponse struct {
	Reply         string `json:"reply"`
	ProposedCount int    `json:"proposed_count"`
	Proposed      []any  `json:"proposed"`
}

// handleApplyMutations applies a JSON array of mutations directly to the
// session timeline, bypassing the proposal flow. Parse errors reject the
// whole batch before anything is applied.
func (s *Server) handleApplyMutations(c *fiber.Ctx) error {
	muts, err := mutation.UnmarshalBatch(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	sess, err := s.mutateSession(c, func(sess *session.Session) error {
		sess.Timeline = mutation.ApplyAll(sess.Timeline, muts)
		return nil
	})
	if sess == nil {
		return err
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeMutationsApplied, sess.ID).
		WithMutations(muts).
		WithTrackSizes(len(sess.Timeline.AudioTrack), len(sess.Timeline.VisualTrack)))

	return c.JSON(sess.Timeline)
}

// handleListProposals returns the pending mutation batch.
func (s *Server) handleListProposals(c *fiber.Ctx) error {
	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}

	return c.JSON(map[string]any{
		"count":     len(sess.Pending),
		"proposals": describeMutations(sess.Pending),
	})
}

// handleStageProposals parses a JSON array of mutations and stages them as
// pending proposals without applying them.
func (s *Server) handleStageProposals(c *fiber.Ctx) error {
	muts, err := mutation.UnmarshalBatch(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	sess, err := s.mutateSession(c, func(sess *session.Session) error {
		sess.Propose(muts...)
		return nil
	})
	if sess == nil {
		return err
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeProposalsStaged, sess.ID).
		WithMutations(muts).
		WithTrackSizes(len(sess.Timeline.AudioTrack), len(sess.Timeline.VisualTrack)))

	return c.JSON(map[string]any{
		"count": len(sess.Pending),
	})
}

// handleAcceptProposals applies the whole pending batch and clears it.
func (s *Server) handleAcceptProposals(c *fiber.Ctx) error {
	sess, err := s.mutateSession(c, func(sess *session.Session) error {
		sess.Accept()
		return nil
	})
	if sess == nil {
		return err
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeProposalsAccepted, sess.ID).
		WithTrackSizes(len(sess.Timeline.AudioTrack), len(sess.Timeline.VisualTrack)))

	return c.JSON(sess.Timeline)
}

// handleRejectProposals discards the pending batch.
func (s *Server) handleRejectProposals(c *fiber.Ctx) error {
	sess, err := s.mutateSession(c, func(sess *session.Session) error {
		sess.Reject()
		return nil
	})
	if sess == nil {
		return err
	}

	s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeProposalsRejected, sess.ID).
		WithTrackSizes(len(sess.Timeline.AudioTrack), len(sess.Timeline.VisualTrack)))

	return c.SendStatus(fiber.StatusNoContent)
}

// handleChat runs one user message through the agent loop. The resulting
// mutation batch is staged on the session for later accept or reject.
func (s *Server) handleChat(c *fiber.Ctx) error {
	if s.orchestrator == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: "no model configured"})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "message is required"})
	}

	sess, ok := s.getSession(c)
	if !ok {
		return nil
	}

	result, err := s.orchestrator.Run(c.Context(), sess, req.Message)
	if err != nil {
		s.logger.Error("agent run failed", "session", sess.ID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "agent run failed"})
	}

	updated, err := s.mutateSession(c, func(sess *session.Session) error {
		sess.Messages = result.Messages
		sess.Propose(result.Proposed...)
		return nil
	})
	if updated == nil {
		return err
	}

	if len(result.Proposed) > 0 {
		s.publish(c, eventstream.NewSessionEvent(eventstream.EventTypeProposalsStaged, updated.ID).
			WithMutations(result.Proposed).
			WithTrackSizes(len(updated.Timeline.AudioTrack), len(updated.Timeline.VisualTrack)))
	}

	return c.JSON(ChatResponse{
		Reply:         result.Reply,
		ProposedCount: len(result.Proposed),
		Proposed:      describeMutations(result.Proposed),
	})
}

// mutateSession wraps store.Mutate with the standard error responses. On
// failure the response has been written and the returned session is nil.
func (s *Server) mutateSession(c *fiber.Ctx, fn func(*session.Session) error) (*session.Session, error) {
	sess, err := s.store.Mutate(c.Context(), c.Params("id"), fn)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
		}
		s.logger.Error("failed to update session", "error", err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to update session"})
	}
	return sess, nil
}

// describeMutations renders a mutation batch as JSON-friendly envelopes.
func describeMutations(muts []mutation.Mutation) []any {
	out := make([]any, 0, len(muts))
	for _, m := range muts {
		out = append(out, map[string]any{
			"type":        m.MutationType(),
			"description": m.Describe(),
			"mutation":    m,
		})
	}
	return out
}
