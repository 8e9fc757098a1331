// Package servecmder provides the serve command for running the Kronos API
// and MCP servers.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/api"
	"github.com/kronoshq/kronos/api/mcp"
	"github.com/kronoshq/kronos/pkg/agent"
	"github.com/kronoshq/kronos/pkg/config"
	"github.com/kronoshq/kronos/pkg/eventstream"
	"github.com/kronoshq/kronos/pkg/eventstream/kafka"
	"github.com/kronoshq/kronos/pkg/llm/provider"
	"github.com/kronoshq/kronos/pkg/logger"
	"github.com/kronoshq/kronos/pkg/session/inmemory"
)

type ServeCommander struct {
	listen        string
	modelProvider string
	modelTarget   string
	modelName     string
	maxTurns      uint
	streamBrokers string
	streamTopic   string
	noModel       bool
	debug         bool
}

// serveFlags is the flag registry for the serve command. Flags bind to
// viper so values resolve flag > env > config file > default.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagModelProvider: {
		Name:        "provider",
		Shorthand:   "p",
		ViperKey:    "model.provider",
		Description: "LLM provider (ollama, openai, anthropic)",
	},
	config.FlagModelTarget: {
		Name:        "target",
		Shorthand:   "t",
		ViperKey:    "model.target",
		Description: "LLM provider base URL",
	},
	config.FlagModelName: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "model.name",
		Description: "Model name as the provider knows it",
	},
	config.FlagMaxTurns: {
		Name:        "max-turns",
		ViperKey:    "model.max_turns",
		Description: "Maximum tool-call turns per chat request",
	},
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagModelProvider,
	config.FlagModelTarget,
	config.FlagModelName,
	config.FlagMaxTurns,
}

const serveLongDesc string = `Run the Kronos API and MCP servers.

Serves the session and timeline REST API, the conversational edit
endpoint, and the MCP tool surface (mounted at /mcp) from a single
listener. Sessions are held in memory for the lifetime of the process.

Chat requires a reachable LLM provider. Use --no-model to serve only
the REST API and MCP surface.

Examples:
  kronos serve
  kronos serve --listen :9090 --provider ollama --model qwen3
  kronos serve --provider anthropic --target https://api.anthropic.com`

const serveShortDesc string = "Run the Kronos API and MCP servers"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)

			cmder.listen = v.GetString("api.listen")
			cmder.modelProvider = v.GetString("model.provider")
			cmder.modelTarget = v.GetString("model.target")
			cmder.modelName = v.GetString("model.name")
			cmder.maxTurns = v.GetUint("model.max_turns")
			cmder.streamBrokers = v.GetString("stream.brokers")
			cmder.streamTopic = v.GetString("stream.topic")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagModelProvider, &cmder.modelProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagModelTarget, &cmder.modelTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagModelName, &cmder.modelName)
	config.AddUintFlag(cmd, serveFlags, config.FlagMaxTurns, &cmder.maxTurns)
	cmd.Flags().BoolVar(&cmder.noModel, "no-model", false, "Serve without an LLM provider (chat disabled)")

	return cmd
}

func (c *ServeCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug))

	store := inmemory.NewStore()

	var orchestrator *agent.Orchestrator
	if !c.noModel {
		model, err := provider.New(c.modelProvider, c.modelTarget)
		if err != nil {
			return fmt.Errorf("creating model client: %w", err)
		}

		orchestrator, err = agent.NewOrchestrator(agent.Config{
			Model:     model,
			ModelName: c.modelName,
			MaxTurns:  int(c.maxTurns),
			Logger:    log,
		})
		if err != nil {
			return fmt.Errorf("creating orchestrator: %w", err)
		}

		log.Info("model configured",
			"provider", c.modelProvider,
			"target", c.modelTarget,
			"model", c.modelName,
		)
	} else {
		log.Info("serving without a model, chat disabled")
	}

	var events eventstream.Publisher
	if c.streamBrokers != "" {
		brokers := strings.Split(c.streamBrokers, ",")
		publisher := kafka.NewPublisher(brokers, c.streamTopic)
		defer publisher.Close()
		events = publisher

		log.Info("session event stream configured",
			"brokers", c.streamBrokers,
			"topic", c.streamTopic,
		)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Store:  store,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiConfig := api.Config{
		ListenAddr: c.listen,
		Events:     events,
	}
	apiServer := api.NewServer(apiConfig, store, orchestrator, log)
	apiServer.MountMCP("/mcp", mcpServer.Handler())

	log.Info("starting server",
		"listen", c.listen,
		"mcp_path", "/mcp",
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}
