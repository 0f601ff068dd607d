package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/config"
	"github.com/openticket/otq/internal/logging"
	"github.com/openticket/otq/internal/queue"
	"github.com/openticket/otq/internal/session"
	"github.com/openticket/otq/internal/tokenstore"
	"github.com/openticket/otq/internal/ui"
)

var (
	serverFlag  string
	jsonOutput  bool
	profileFlag string

	cfg     *config.Config
	logger  *slog.Logger
	store   *tokenstore.File
	client  api.TicketAPI
	monitor *session.Monitor
	ctrl    *queue.Controller
)

var rootCmd = &cobra.Command{
	Use:   "otq",
	Short: "Ticketing client with queue admission and seat-hold management",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = logging.Setup(cfg.LogLevel)

		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		prof, err := resolveProfile(profileFlag)
		if err != nil {
			return err
		}
		if prof.URL != "" {
			cfg.ServerURL = prof.URL
		}
		if prof.NATSURL != "" && cfg.NATSURL == "" {
			cfg.NATSURL = prof.NATSURL
		}
		// The --server flag wins over both the profile and the environment.
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = serverFlag
		}

		store, err = tokenstore.OpenFile(cfg.TokensPath(), logger)
		if err != nil {
			return fmt.Errorf("opening token store: %w", err)
		}

		client = api.New(cfg.ServerURL,
			api.WithAuthSource(store.Auth),
			api.WithLogger(logger),
		)
		monitor = session.NewMonitor(store)
		monitor.Subscribe(printSessionNotices)
		ctrl = queue.NewController(client, store, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "API server base URL (overrides OTQ_SERVER and the active profile)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "named server profile to use for this invocation")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(seatsCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
