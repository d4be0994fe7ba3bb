package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anurags10/medibook"
	"github.com/anurags10/medibook/internal/presentation/graph"
	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/anurags10/medibook/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// FlowURI is the resource exposing the conversation flow graph.
const FlowURI = "medibook://flow"

// TurnResponse is the structured result of the conversation tools.
type TurnResponse struct {
	Message  string        `json:"message,omitempty" jsonschema_description:"The agent reply to show the user"`
	Intent   domain.Intent `json:"intent,omitempty" jsonschema_description:"The active flow: book, reschedule or cancel"`
	Step     domain.Step   `json:"step" jsonschema_description:"The step the conversation is waiting on"`
	Terminal bool          `json:"terminal" jsonschema_description:"Indicates the flow has finished"`
}

// Engine is what the MCP server needs from a conversation.
type Engine interface {
	ports.Conversation
	Inspect() []runtime.Transition
}

// Server wraps a conversation and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("medibook-mcp", strings.TrimSpace(medibook.Version)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one user message to the appointment assistant and get its reply."),
		mcp.WithString("text", mcp.Required(), mcp.Description("What the user said")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	resetTool := mcp.NewTool("reset_conversation",
		mcp.WithDescription("Abandon the current flow and return to the greeting."),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get the current intent and step of the conversation."),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Get the static graph of conversation steps."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Inspect())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

type sendArgs struct {
	Text string `mapstructure:"text"`
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	var in sendArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return TurnResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	clean, err := runner.SanitizeInput(in.Text)
	if err != nil {
		s.logger.Warn("MCP send_message: input rejected", "err", err, "size", len(in.Text))
		return TurnResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	reply, err := s.engine.Turn(ctx, clean)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}
	return toResponse(reply.Message, reply.Snapshot), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	if err := s.engine.Reset(ctx); err != nil {
		return TurnResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return toResponse(s.engine.Greeting(), s.engine.Snapshot()), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	return toResponse("", s.engine.Snapshot()), nil
}

func toResponse(msg string, snap domain.Snapshot) TurnResponse {
	return TurnResponse{
		Message:  msg,
		Intent:   snap.Intent,
		Step:     snap.Step,
		Terminal: snap.Terminal,
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Conversation Flow",
		mcp.WithResourceDescription("Mermaid flowchart of the conversation steps"),
		mcp.WithMIMEType("text/plain"),
	), s.handleReadFlow)
}

func (s *Server) handleReadFlow(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	overlay := &graph.GraphOverlay{CurrentStep: s.engine.Snapshot().Step}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FlowURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.engine.Inspect(), overlay),
		},
	}, nil
}
