package api

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/kronoshq/kronos/pkg/agent"
	"github.com/kronoshq/kronos/pkg/eventstream"
	"github.com/kronoshq/kronos/pkg/eventstream/nop"
	"github.com/kronoshq/kronos/pkg/session"
)

// Server is the HTTP API server for managing and querying timeline sessions.
type Server struct {
	config       Config
	store        session.Store
	orchestrator *agent.Orchestrator
	events       eventstream.Publisher
	logger       *slog.Logger
	app          *fiber.App
}

// NewServer creates a new API server.
// The store is injected to allow sharing with other components (e.g., the
// MCP server). The orchestrator is optional; when nil, the chat endpoint
// returns 503.
func NewServer(config Config, store session.Store, orchestrator *agent.Orchestrator, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	events := config.Events
	if events == nil {
		events = nop.NewPublisher()
	}

	s := &Server{
		config:       config,
		store:        store,
		orchestrator: orchestrator,
		events:       events,
		logger:       logger,
		app:          app,
	}

	app.Get("/ping", s.handlePing)

	app.Post("/sessions", s.handleCreateSession)
	app.Get("/sessions", s.handleListSessions)
	app.Get("/sessions/:id", s.handleGetSession)
	app.Delete("/sessions/:id", s.handleDeleteSession)

	app.Get("/sessions/:id/timeline", s.handleGetTimeline)
	app.Put("/sessions/:id/timeline", s.handlePutTimeline)
	app.Get("/sessions/:id/timeline/refined", s.handleGetRefined)
	app.Get("/sessions/:id/playback", s.handlePlayback)
	app.Get("/sessions/:id/export/edl", s.handleExportEDL)

	app.Post("/sessions/:id/mutations", s.handleApplyMutations)
	app.Get("/sessions/:id/proposals", s.handleListProposals)
	app.Post("/sessions/:id/proposals", s.handleStageProposals)
	app.Post("/sessions/:id/proposals/accept", s.handleAcceptProposals)
	app.Post("/sessions/:id/proposals/reject", s.handleRejectProposals)

	app.Post("/sessions/:id/chat", s.handleChat)

	return s
}

// publish sends a session event, logging failures without surfacing them to
// the request. Event delivery never affects the edit itself.
func (s *Server) publish(c *fiber.Ctx, event *eventstream.SessionEvent) {
	if err := s.events.PublishSession(c.Context(), event); err != nil {
		s.logger.Warn("failed to publish session event",
			"type", event.EventType,
			"session", event.SessionID,
			"error", err,
		)
	}
}

// MountMCP mounts an MCP HTTP handler under the given path prefix.
func (s *Server) MountMCP(path string, handler http.Handler) {
	s.app.All(path, adaptor.HTTPHandler(handler))
	s.app.All(path+"/*", adaptor.HTTPHandler(handler))
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
