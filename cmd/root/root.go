// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/finrecon/internal/config"
	"fjacquet/finrecon/internal/container"
	"fjacquet/finrecon/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the container is built.
	Log = logging.NewLogrusAdapter("info", "text")

	// UserID scopes every ledger and remote operation. Empty means user.id
	// from the configuration.
	UserID string

	// ConfigFile overrides the config.yaml search.
	ConfigFile string

	app *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finrecon",
		Short: "Import, categorize and reconcile personal expenses.",
		Long: `finrecon keeps a per-user expense ledger. It imports CSV and Excel
statements, tags every expense with a spending category, and merges the
local ledger with the remote dashboard API into one summary.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			if err := app.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close application")
			}
			app = nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	if Cmd.PersistentFlags().Lookup("user") != nil {
		return
	}
	Cmd.PersistentFlags().StringVarP(&UserID, "user", "u", "", "User identifier (default: user.id from config)")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.finrecon, .finrecon or .)")
}

// App returns the container built for the running command.
func App() *container.Container {
	return app
}

// SetApp installs a prebuilt container; setup then skips building one.
func SetApp(c *container.Container) {
	app = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// User resolves the --user flag, falling back to the configured user.
func User() string {
	if UserID != "" {
		return UserID
	}
	if app != nil {
		return app.GetConfig().User.ID
	}
	return ""
}

func setup(cmd *cobra.Command, args []string) error {
	if app != nil {
		return nil
	}

	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	SetApp(c)

	Log.Debug("Command starting",
		logging.F(logging.FieldOperation, cmd.Name()),
		logging.F(logging.FieldUser, User()))
	return nil
}
