package cli

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yyyoichi/contactsheet/internal/config"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "contactsheet",
		Short: "Arrange images into a single contact sheet",
		Long: `Contactsheet tiles a list of images into one grid image.

The grid defaults to a near-square number of columns, the rows needed to hold
every image and an output width that keeps each tile at the first image's
native width. Any of the three can be overridden. The background colour of the
first image is made transparent in the result.

Defaults for the flags below can be set in the environment or a .env file
(CONTACTSHEET_OUTPUT, CONTACTSHEET_TRANSPARENCY, CONTACTSHEET_FUZZ,
CONTACTSHEET_QUALITY, CONTACTSHEET_FILL, CONTACTSHEET_LOG_LEVEL).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg := config.Load()
			if !cmd.Flags().Changed("log-level") {
				logLevel = cfg.LogLevel
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn or error)")

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewLayoutCmd())
	cmd.AddCommand(NewSessionCmd())

	return cmd
}
