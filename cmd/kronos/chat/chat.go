// Package chatcmder provides the chat command for conversational timeline
// editing against a running kronos server.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/pkg/cliui"
	"github.com/kronoshq/kronos/pkg/config"
	"github.com/kronoshq/kronos/pkg/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("editor>")
	mutationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	mutationNumbers = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type chatCommander struct {
	apiTarget string
	sessionID string
	timeline  string
}

// chatRequest mirrors the server's chat endpoint payload.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse mirrors the server's chat endpoint reply.
type chatResponse struct {
	Reply         string           `json:"reply"`
	ProposedCount int              `json:"proposed_count"`
	Proposed      []proposedChange `json:"proposed"`
}

type proposedChange struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// sessionReply is the subset of the session payload the chat client needs.
type sessionReply struct {
	ID string `json:"id"`
}

const chatLongDesc string = `Start an interactive editing session against a running kronos server.

Messages are sent to the server's chat endpoint, where the model proposes
timeline mutations as a pending batch. Nothing is applied until you accept.

Without --session a fresh session is created, optionally seeded from a
timeline JSON file via --timeline.

In-session commands:
  /accept    Apply the pending mutation batch to the timeline
  /reject    Discard the pending mutation batch
  /exit      Quit (Ctrl+D also works)

Examples:
  kronos chat
  kronos chat --timeline cut.json
  kronos chat --session 1b9d6bcd --api-target http://localhost:8080`

const chatShortDesc string = "Edit a timeline conversationally"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", defaults.Client.APITarget, "Kronos API server URL")
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Existing session id to resume")
	cmd.Flags().StringVarP(&cmder.timeline, "timeline", "t", "", "Timeline JSON file to seed a new session with")

	return cmd
}

func (c *chatCommander) run() error {
	client := &http.Client{
		// LLM-backed requests can be slow
		Timeout: 5 * time.Minute,
	}

	if c.sessionID == "" {
		id, err := c.createSession(client)
		if err != nil {
			return err
		}
		c.sessionID = id
		fmt.Printf("\n  %s New session %s\n",
			cliui.SuccessMark,
			cliui.ValueStyle.Render(utils.Truncate(c.sessionID, 16)),
		)
	} else {
		fmt.Printf("\n  %s Resuming session %s\n",
			cliui.SuccessMark,
			cliui.ValueStyle.Render(utils.Truncate(c.sessionID, 16)),
		)
	}

	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your edit and press Enter. /accept, /reject, /exit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/exit":
			fmt.Println()
			return scanner.Err()
		case "/accept":
			if err := c.resolveProposals(client, "accept"); err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
				continue
			}
			fmt.Printf("  %s Applied pending mutations\n\n", cliui.SuccessMark)
			continue
		case "/reject":
			if err := c.resolveProposals(client, "reject"); err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
				continue
			}
			fmt.Printf("  %s Discarded pending mutations\n\n", cliui.SuccessMark)
			continue
		}

		resp, err := c.sendMessage(client, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		c.printReply(resp)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

func (c *chatCommander) createSession(client *http.Client) (string, error) {
	var body io.Reader
	if c.timeline != "" {
		data, err := os.ReadFile(c.timeline)
		if err != nil {
			return "", fmt.Errorf("reading timeline file: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.apiTarget+"/sessions", body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sess sessionReply
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return "", fmt.Errorf("decoding session: %w", err)
	}
	return sess.ID, nil
}

func (c *chatCommander) sendMessage(client *http.Client, text string) (*chatResponse, error) {
	body, err := json.Marshal(chatRequest{Message: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/sessions/%s/chat", c.apiTarget, c.sessionID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding reply: %w", err)
	}
	return &out, nil
}

func (c *chatCommander) resolveProposals(client *http.Client, action string) error {
	url := fmt.Sprintf("%s/sessions/%s/proposals/%s", c.apiTarget, c.sessionID, action)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *chatCommander) printReply(resp *chatResponse) {
	fmt.Println()
	fmt.Println(assistantLabel)

	rendered, err := cliui.RenderMarkdown(resp.Reply)
	if err != nil {
		// Fall back to plain text
		fmt.Println(resp.Reply)
	} else {
		fmt.Print(rendered)
	}

	if resp.ProposedCount > 0 {
		fmt.Printf("  %s\n", mutationStyle.Render(fmt.Sprintf("%d pending mutation(s):", resp.ProposedCount)))
		for i, p := range resp.Proposed {
			desc := p.Description
			if desc == "" {
				desc = p.Type
			}
			fmt.Printf("    %s %s\n", mutationNumbers.Render(fmt.Sprintf("%d.", i+1)), desc)
		}
		fmt.Printf("  %s\n", cliui.DimStyle.Render("/accept to apply, /reject to discard"))
	}
	fmt.Println()
}
