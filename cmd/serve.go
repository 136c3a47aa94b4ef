package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/novelclick/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the capture, match and click tools",
	Long: `Start a Model Context Protocol (MCP) server so an agent can drive the game
window step by step: list windows, capture and recognize text, look for a
label and click it.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport

Examples:
  novelclick serve --config config.yaml
  novelclick serve --endpoint http://localhost:8000 --title "Game" --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 2000, "OCR scan cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("title", "", "Default partial window title (default: config title)")
	serveCmd.Flags().String("endpoint", "", "OCR service base URL (default: config ocr_api_endpoint)")
	serveCmd.Flags().Int("keep-height", 0, "Default kept height in pixels (0 = full height)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	defaults, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode.
	log, err := logging.Setup(defaults.BaseDir, time.Now())
	if err != nil {
		return err
	}
	defer log.Close()

	cfg := MCPConfig{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Defaults:  defaults,
	}

	srv, err := newMCPServer(cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	log.Infof("serving MCP over %s (endpoint=%q title=%q)", transport, defaults.Endpoint, defaults.Title)
	return srv.serve(cfg)
}
