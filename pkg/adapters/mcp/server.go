package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/dto"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource exposing the current state.
const StateURI = "tally://state"

// StateResponse is the structured result of every tool.
type StateResponse struct {
	State  domain.State `json:"state" jsonschema_description:"The committed state after the call"`
	Action string       `json:"action,omitempty" jsonschema_description:"The action that was dispatched, if any"`
}

// Server wraps the store and exposes it as an MCP Server.
type Server struct {
	store     ports.Store
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:     store,
		logger:    logger,
		mcpServer: server.NewMCPServer("tally-mcp", strings.TrimSpace(tally.Version)),
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
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Read the current counter state."),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("increment",
		mcp.WithDescription("Add an amount to the counter. Any integer is accepted, including zero and negatives."),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Integer amount to add. Fractional or out-of-range values are rejected.")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleIncrement))

	s.mcpServer.AddTool(mcp.NewTool("decrement",
		mcp.WithDescription("Subtract one from the counter."),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleDecrement))

	s.mcpServer.AddTool(mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch a raw action record. Unrecognized types leave the state unchanged."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Action type, e.g. INCREMENT or DECREMENT")),
		mcp.WithNumber("payload", mcp.Description("Integer payload (INCREMENT amount). Fractional or out-of-range values are rejected.")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleDispatch))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return StateResponse{State: s.store.GetState()}, nil
}

func (s *Server) handleIncrement(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	amount, ok := args["amount"]
	if !ok {
		return StateResponse{}, fmt.Errorf("%w: amount is required", domain.ErrMalformedAction)
	}
	return s.dispatch(ctx, map[string]interface{}{
		"type":    string(domain.ActionIncrement),
		"payload": amount,
	})
}

func (s *Server) handleDecrement(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return s.dispatch(ctx, map[string]interface{}{"type": string(domain.ActionDecrement)})
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return s.dispatch(ctx, args)
}

func (s *Server) dispatch(ctx context.Context, raw map[string]interface{}) (StateResponse, error) {
	action, err := dto.DecodeAction(raw)
	if err != nil {
		s.logger.Warn("MCP: Action rejected", "error", err)
		return StateResponse{}, err
	}
	return StateResponse{
		State:  s.store.Dispatch(ctx, action),
		Action: action.String(),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current Counter State",
		mcp.WithMIMEType("application/json"),
	), s.readState)
}

func (s *Server) readState(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.store.GetState())
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StateURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
