package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/mj1618/novelclick/internal/version"
	"github.com/sirupsen/logrus"
)

// mcpServer wraps the MCP server with the platform provider, OCR client and
// scan cache.
type mcpServer struct {
	provider   *platform.Provider
	client     *ocr.Client
	defaults   settings
	cache      *mcpScanCache
	log        *logrus.Logger
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Defaults  settings
}

// newMCPServer creates an MCP server on the current platform's provider.
func newMCPServer(cfg MCPConfig, log *logrus.Logger) (*mcpServer, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	return newMCPServerWith(provider, cfg, log), nil
}

func newMCPServerWith(provider *platform.Provider, cfg MCPConfig, log *logrus.Logger) *mcpServer {
	s := &mcpServer{
		provider: provider,
		defaults: cfg.Defaults,
		cache:    newMCPScanCache(cfg.CacheTTL),
		log:      log,
	}
	if cfg.Defaults.Endpoint != "" {
		s.client = ocr.NewClient(cfg.Defaults.Endpoint)
	}
	s.mcp = mcpserver.NewMCPServer("novelclick", version.Version)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("health",
			mcp.WithDescription("Check that the OCR service answers GET /health with status ok"),
		),
		s.handleHealth,
	)

	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List visible top-level windows with their titles and bounds"),
			mcp.WithString("title", mcp.Description("Only windows whose title contains this text")),
			mcp.WithBoolean("all", mcp.Description("Include hidden and untitled windows")),
		),
		s.handleWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("capture_text",
			mcp.WithDescription("Capture the game window and return every text candidate the OCR service recognized, with its box in window coordinates"),
			mcp.WithString("title", mcp.Description("Partial window title (default: configured title)")),
			mcp.WithNumber("keep_height", mcp.Description("Keep only the top N pixel rows (0 = full height)")),
			mcp.WithBoolean("annotate", mcp.Description("Also write an annotated PNG with numbered boxes")),
		),
		s.handleCaptureText,
	)

	s.mcp.AddTool(
		mcp.NewTool("match",
			mcp.WithDescription("Look for a step label on screen using the run loop's normalization and substring rule. Does not click."),
			mcp.WithString("text", mcp.Description("Step label"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Partial window title (default: configured title)")),
			mcp.WithNumber("keep_height", mcp.Description("Keep only the top N pixel rows (0 = full height)")),
		),
		s.handleMatch,
	)

	s.mcp.AddTool(
		mcp.NewTool("click_text",
			mcp.WithDescription("Capture, recognize and click the center of the first candidate containing the step label"),
			mcp.WithString("text", mcp.Description("Step label"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Partial window title (default: configured title)")),
			mcp.WithNumber("keep_height", mcp.Description("Keep only the top N pixel rows (0 = full height)")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
		),
		s.handleClickText,
	)
}

// toolText renders a result the way the CLI prints it.
func toolText(v interface{}) *mcp.CallToolResult {
	text, err := output.Render(output.FormatYAML, v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

// scopeSettings overlays tool arguments on the server defaults.
func (s *mcpServer) scopeSettings(params map[string]interface{}) settings {
	scope := s.defaults
	scope.Title = StringParam(params, "title", scope.Title)
	scope.KeepHeight = IntParam(params, "keep_height", scope.KeepHeight)
	return scope
}

func (s *mcpServer) freshScan(ctx context.Context, scope settings) (*scan, error) {
	return scanWindow(ctx, s.provider, s.client, scope)
}

func (s *mcpServer) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.client == nil {
		return mcp.NewToolResultError("no OCR endpoint configured"), nil
	}
	return toolText(output.HealthResult{OK: s.client.Health(ctx), Endpoint: s.client.Endpoint()}), nil
}

func (s *mcpServer) handleWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	windows, err := s.provider.Windows.ListWindows(platform.ListOptions{
		Title: StringParam(params, "title", ""),
		All:   BoolParam(params, "all", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolText(output.WindowsResult{Windows: windows}), nil
}

func (s *mcpServer) handleCaptureText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.client == nil {
		return mcp.NewToolResultError("no OCR endpoint configured"), nil
	}
	params := request.GetArguments()
	scope := s.scopeSettings(params)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sc, err := s.cache.get(ctx, scope, s.freshScan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if BoolParam(params, "annotate", false) {
		if err := sc.writeAnnotated(-1); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	s.log.Infof("capture_text: title=%q candidates=%d path=%s", scope.Title, len(sc.Candidates), sc.Shot.Path)
	return toolText(sc.captureResult()), nil
}

func (s *mcpServer) handleMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.client == nil {
		return mcp.NewToolResultError("no OCR endpoint configured"), nil
	}
	params := request.GetArguments()
	text := StringParam(params, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	scope := s.scopeSettings(params)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sc, err := s.cache.get(ctx, scope, s.freshScan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, _ := matchScan(sc, text)
	return toolText(res), nil
}

func (s *mcpServer) handleClickText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.client == nil {
		return mcp.NewToolResultError("no OCR endpoint configured"), nil
	}
	params := request.GetArguments()
	text := StringParam(params, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	button, err := platform.ParseMouseButton(StringParam(params, "button", "left"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scope := s.scopeSettings(params)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	// Always click on a fresh capture.
	s.cache.invalidateTitle(scope.Title)
	sc, err := s.cache.get(ctx, scope, s.freshScan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, _ := matchScan(sc, text)
	if !res.Matched {
		return toolText(res), nil
	}

	if err := s.provider.Windows.BringToForeground(sc.Window); err != nil {
		s.log.Warnf("bring to foreground failed: %v", err)
	}
	if err := s.provider.Windows.ClickAt(res.Point[0], res.Point[1], button); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res.Clicked = true
	s.cache.invalidateAll()
	s.log.Infof("click_text: %q at (%d, %d)", text, res.Point[0], res.Point[1])
	return toolText(res), nil
}
