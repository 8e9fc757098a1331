// Package mcp provides an MCP (Model Context Protocol) server exposing
// timeline sessions as tools, so external agents can inspect and edit
// timelines over the standard protocol.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/utils"
)

type Config struct {
	// Store holds the sessions the tools operate on
	Store session.Store

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the timeline editing tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "kronos",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Store == nil {
		return nil, errors.New("session store is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        timelineGetToolName,
		Description: timelineGetDescription,
	}, s.handleTimelineGet)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        addAudioToolName,
		Description: addAudioDescription,
	}, s.handleAddAudio)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        addVisualToolName,
		Description: addVisualDescription,
	}, s.handleAddVisual)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        removeAudioToolName,
		Description: removeAudioDescription,
	}, s.handleRemoveAudio)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        removeVisualToolName,
		Description: removeVisualDescription,
	}, s.handleRemoveVisual)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        modifyAudioToolName,
		Description: modifyAudioDescription,
	}, s.handleModifyAudio)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        modifyVisualToolName,
		Description: modifyVisualDescription,
	}, s.handleModifyVisual)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        retimeClipsToolName,
		Description: retimeClipsDescription,
	}, s.handleRetimeClips)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
