package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vytor/mathflash/internal/app"
	"github.com/vytor/mathflash/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Example: `
# Listen on a custom address
ADDR=:9000 mathflash serve
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		logger.Info("starting server on %s", cfg.Addr)
		return app.Serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Override ADDR")
}
