// Package cli holds the mathflash command tree.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vytor/mathflash/internal/config"
	"github.com/vytor/mathflash/internal/logger"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "mathflash",
	Short: "Adaptive arithmetic practice",
	Long: `mathflash serves arithmetic puzzles whose difficulty follows your
recent accuracy and speed. Play in the terminal, browse archived results,
or run the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			cfg.DBPath = db
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger.SetDefault(logger.New(
			logger.WithOutput(os.Stderr),
			logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			logger.WithColors(isatty.IsTerminal(os.Stderr.Fd())),
		))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Override LOG_LEVEL (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("db", "", "Override DB_PATH for the results archive")

	rootCmd.AddCommand(playCmd, resultsCmd, serveCmd)
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return rootCmd.Execute()
}
