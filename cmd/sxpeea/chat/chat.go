// Package chatcmder provides the chat command for talking to the chat bot
// through a running sxpeea server.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/sxpeea/sxpeea/pkg/cliui"
	"github.com/sxpeea/sxpeea/pkg/config"
	"github.com/sxpeea/sxpeea/pkg/dotdir"
	"github.com/sxpeea/sxpeea/pkg/logger"
	"github.com/sxpeea/sxpeea/pkg/sse"
	"github.com/sxpeea/sxpeea/pkg/utils"
	"github.com/sxpeea/sxpeea/proxy"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	serverTarget string
	userID       string
	newChat      bool
	markdown     bool
	configDir    string
	debug        bool

	in     io.Reader
	out    io.Writer
	client *http.Client
	ddm    *dotdir.Manager
	logger *slog.Logger
}

// errStreamEnded is returned when the stream closes without a terminal event.
var errStreamEnded = errors.New("stream ended before the reply completed")

const chatLongDesc string = `Start an interactive chat session with the site's chat bot.

Messages are posted to the server's /chat/stream endpoint and the reply is
printed as it streams in. The conversation continues across runs: the last
conversation id is kept in the .sxpeea directory until --new is given.

When stdout is a terminal, finished replies are rendered as markdown unless
--markdown=false is given.

Examples:
  sxpeea chat
  sxpeea chat --new
  sxpeea chat --server http://localhost:8000`

const chatShortDesc string = "Chat with the bot through a running sxpeea server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{
		in:     os.Stdin,
		out:    os.Stdout,
		client: &http.Client{Timeout: 5 * time.Minute},
		ddm:    dotdir.NewManager(),
	}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagServerTarget})
			cmder.serverTarget = strings.TrimRight(v.GetString("client.server_target"), "/")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			if !cliui.IsTerminal(os.Stdout) {
				cmder.markdown = false
			}

			return cmder.run(cmd.Context())
		},
	}

	var serverTarget string
	config.AddStringFlag(cmd, config.Flags, config.FlagServerTarget, &serverTarget)
	cmd.Flags().StringVarP(&cmder.userID, "user-id", "u", "", "User id sent with each message (default: the server's)")
	cmd.Flags().BoolVarP(&cmder.newChat, "new", "n", false, "Start a new conversation")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", true, "Render finished replies as markdown")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.logger == nil {
		c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	}

	if c.newChat {
		if err := c.ddm.ClearConversation(c.configDir); err != nil {
			return fmt.Errorf("clearing conversation: %w", err)
		}
	}

	state, err := c.ddm.LoadConversation(c.configDir)
	if err != nil {
		return fmt.Errorf("loading conversation: %w", err)
	}

	var conversationID string
	fmt.Fprintln(c.out)
	if state != nil {
		conversationID = state.ConversationID
		if c.userID == "" {
			c.userID = state.UserID
		}
		fmt.Fprintf(c.out, "  %s Resuming conversation %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(utils.Truncate(conversationID, 24)),
		)
	} else {
		fmt.Fprintf(c.out, "  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Fprintf(c.out, "  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.ValueStyle.Render(c.serverTarget),
	)
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		reply, err := c.send(ctx, proxy.StreamRequest{
			Message:        input,
			ConversationID: conversationID,
			UserID:         c.userID,
		})
		if err != nil {
			fmt.Fprintf(c.out, "\n  %s %s\n\n", cliui.FailMark, cliui.ErrorStyle.Render(err.Error()))
			continue
		}

		if reply.ConversationID != "" && reply.ConversationID != conversationID {
			conversationID = reply.ConversationID
			if err := c.ddm.SaveConversation(&dotdir.ConversationState{
				ConversationID: conversationID,
				UserID:         c.userID,
				UpdatedAt:      time.Now().UTC(),
			}, c.configDir); err != nil {
				c.logger.Warn("could not save conversation", "error", err)
			}
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// reply is one finished assistant turn.
type reply struct {
	Content        string
	ConversationID string
}

// send posts a message and prints the reply. Content streams to the output
// as it arrives unless markdown rendering is on, in which case the rendered
// reply is printed once complete.
func (c *chatCommander) send(ctx context.Context, req proxy.StreamRequest) (reply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return reply{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.serverTarget + "/chat/stream"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return reply{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	c.logger.Debug("sending chat message",
		"server", c.serverTarget,
		"conversation_id", req.ConversationID,
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return reply{}, fmt.Errorf("sending request to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return reply{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	fmt.Fprint(c.out, assistantPrompt)

	r, err := readReply(resp.Body, func(chunk string) {
		if !c.markdown {
			fmt.Fprint(c.out, chunk)
		}
	})
	if err != nil {
		return r, err
	}

	if c.markdown {
		rendered, renderErr := cliui.RenderMarkdown(r.Content)
		if renderErr != nil {
			c.logger.Debug("markdown render failed", "error", renderErr)
		}
		fmt.Fprint(c.out, "\n"+strings.TrimRight(rendered, "\n"))
	}

	return r, nil
}

// readReply consumes relay frames until a terminal event. onContent is
// called with each content chunk as it arrives.
func readReply(body io.Reader, onContent func(string)) (reply, error) {
	var (
		r       reply
		content strings.Builder
	)

	events := sse.NewReader(body)
	for {
		frame, err := events.Next()
		if err != nil {
			return r, fmt.Errorf("reading stream: %w", err)
		}
		if frame == nil {
			r.Content = content.String()
			return r, errStreamEnded
		}

		var ev proxy.ClientEvent
		if err := json.Unmarshal([]byte(frame.Data), &ev); err != nil {
			continue
		}

		switch ev.Type {
		case proxy.EventContent:
			content.WriteString(ev.Content)
			onContent(ev.Content)
		case proxy.EventDone:
			if ev.ConversationID != nil {
				r.ConversationID = *ev.ConversationID
			}
		case proxy.EventCompleted:
			r.Content = content.String()
			return r, nil
		case proxy.EventError:
			r.Content = content.String()
			return r, errors.New(ev.Content)
		}
	}
}
