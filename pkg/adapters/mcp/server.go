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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/oolestudio/tamashi"
	"github.com/oolestudio/tamashi/internal/presentation/graph"
	"github.com/oolestudio/tamashi/pkg/domain"
	tgraph "github.com/oolestudio/tamashi/pkg/graph"
	"github.com/oolestudio/tamashi/pkg/ports"
	"github.com/oolestudio/tamashi/pkg/session"
)

// TutorialsURI lists the catalog as a resource.
const TutorialsURI = "tamashi://tutorials"

// ViewResponse aligns with the HTTP SessionView and is returned by every
// session tool.
type ViewResponse struct {
	SessionID string      `json:"session_id" jsonschema_description:"The session the command ran against"`
	View      domain.View `json:"view" jsonschema_description:"What the host should render after the command"`
}

// ValidationReport is returned by validate_tutorial.
type ValidationReport struct {
	TutorialID string   `json:"tutorial_id"`
	Valid      bool     `json:"valid"`
	Problems   []string `json:"problems,omitempty"`
}

// TutorialSummary is one entry of list_tutorials and the tutorials resource.
type TutorialSummary struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Steps int    `json:"steps"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type loadArgs struct {
	SessionID   string `json:"session_id"`
	TutorialID  string `json:"tutorial_id"`
	StartStepID string `json:"start_step_id"`
}

type tutorialArgs struct {
	TutorialID string `json:"tutorial_id"`
}

// Server exposes tutorial sessions as MCP tools.
type Server struct {
	sessions  *session.Manager
	catalog   ports.Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, catalog ports.Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions:  sessions,
		catalog:   catalog,
		logger:    logger,
		mcpServer: server.NewMCPServer("tamashi-mcp", strings.TrimSpace(tamashi.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to act on"))

	// TOOL: load_tutorial
	s.mcpServer.AddTool(mcp.NewTool("load_tutorial",
		mcp.WithDescription("Start a catalog tutorial in a session. The session is created if needed."),
		sessionID,
		mcp.WithString("tutorial_id", mcp.Required(), mcp.Description("Catalog ID of the tutorial")),
		mcp.WithString("start_step_id", mcp.Description("Step to start at (defaults to the tutorial's start step)")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleLoad))

	// TOOLS: advance, dismiss, reset
	for _, cmd := range []struct {
		name, desc string
		op         func(*session.Session, context.Context) (domain.View, error)
	}{
		{"advance", "Move to the next step. On the last step this hides the guide.", (*session.Session).Advance},
		{"dismiss", "Hide the guide, keeping the current step.", (*session.Session).Dismiss},
		{"reset", "Restart the loaded tutorial from its first step and show the guide again.", (*session.Session).Reset},
	} {
		s.mcpServer.AddTool(mcp.NewTool(cmd.name,
			mcp.WithDescription(cmd.desc),
			sessionID,
			mcp.WithOutputSchema[ViewResponse](),
		), mcp.NewStructuredToolHandler(s.command(cmd.op)))
	}

	// TOOL: get_view
	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Get what a session currently shows."),
		sessionID,
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetView))

	// TOOL: list_tutorials
	s.mcpServer.AddTool(mcp.NewTool("list_tutorials",
		mcp.WithDescription("List the tutorials in the catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.summaries(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(list)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: validate_tutorial
	s.mcpServer.AddTool(mcp.NewTool("validate_tutorial",
		mcp.WithDescription("Check a catalog tutorial's step graph for dangling references, duplicate IDs and a missing start step."),
		mcp.WithString("tutorial_id", mcp.Required(), mcp.Description("Catalog ID of the tutorial")),
		mcp.WithOutputSchema[ValidationReport](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a catalog tutorial as a Mermaid flowchart."),
		mcp.WithString("tutorial_id", mcp.Required(), mcp.Description("Catalog ID of the tutorial")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t, err := s.catalog.Get(ctx, request.GetString("tutorial_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(t, nil)), nil
	})
}

func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest, args loadArgs) (ViewResponse, error) {
	if args.SessionID == "" || args.TutorialID == "" {
		return ViewResponse{}, errors.New("session_id and tutorial_id are required")
	}

	t, err := s.catalog.Get(ctx, args.TutorialID)
	if err != nil {
		return ViewResponse{}, err
	}
	start := args.StartStepID
	if start == "" {
		start = t.StartStepID
	}

	sess, err := s.sessions.Open(ctx, args.SessionID)
	if err != nil {
		return ViewResponse{}, err
	}
	view, err := sess.Load(ctx, t.ID, t.Steps, start)
	if err != nil {
		return ViewResponse{}, err
	}
	s.logger.Debug("MCP: tutorial loaded", "session_id", sess.ID, "tutorial_id", t.ID)
	return ViewResponse{SessionID: sess.ID, View: view}, nil
}

func (s *Server) command(op func(*session.Session, context.Context) (domain.View, error)) func(context.Context, mcp.CallToolRequest, sessionArgs) (ViewResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (ViewResponse, error) {
		sess, err := s.sessions.Get(ctx, args.SessionID)
		if err != nil {
			return ViewResponse{}, err
		}
		view, err := op(sess, ctx)
		if err != nil {
			return ViewResponse{}, err
		}
		return ViewResponse{SessionID: sess.ID, View: view}, nil
	}
}

func (s *Server) handleGetView(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (ViewResponse, error) {
	sess, err := s.sessions.Get(ctx, args.SessionID)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{SessionID: sess.ID, View: sess.View()}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args tutorialArgs) (ValidationReport, error) {
	t, err := s.catalog.Get(ctx, args.TutorialID)
	if err != nil {
		return ValidationReport{}, err
	}

	report := ValidationReport{TutorialID: t.ID, Valid: true}
	if err := tgraph.ValidateTutorial(t); err != nil {
		report.Valid = false
		for _, p := range tgraph.ValidationErrors(err) {
			report.Problems = append(report.Problems, p.Error())
		}
	}
	return report, nil
}

func (s *Server) summaries(ctx context.Context) ([]TutorialSummary, error) {
	ids, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TutorialSummary, 0, len(ids))
	for _, id := range ids {
		t, err := s.catalog.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, TutorialSummary{ID: t.ID, Title: t.Title, Steps: len(t.Steps)})
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tamashi://tutorials
	s.mcpServer.AddResource(mcp.NewResource(TutorialsURI, "Tutorial Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := s.summaries(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tutorials: %w", err)
		}
		jsonBytes, _ := json.Marshal(list)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TutorialsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
