package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the preparation pipeline over MCP (stdio)",
	Long: `Serve the preparation pipeline to MCP clients over stdio. Exposes the
analysis stages as tools and the session state as resources, so an
assistant can drive job-description analysis, resume scoring, and question
generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, store, err := newPipeline()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := mcp.NewServer(mcp.Deps{Pipeline: pipeline, Store: store}, version)
		stdioSrv := server.NewStdioServer(srv)
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
