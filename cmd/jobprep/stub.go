package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shenbi/jobprep/internal/stubapi"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stand-in for the analysis service (foreground)",
	Long: `Run a local stand-in for the analysis service with canned results, so
the full preparation flow can be exercised offline. Point the CLI at it
with:

  jobprep config set api.base_url http://127.0.0.1:8787`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf("127.0.0.1:%d", cfg.Stub.Port)
		return stubapi.NewServer().Run(ctx, addr)
	},
}
