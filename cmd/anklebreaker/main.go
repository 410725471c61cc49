package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"anklebreaker/internal/adapters/ingest"
	"anklebreaker/internal/adapters/storage/clubregistry"
	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/application/orchestrators"
	"anklebreaker/internal/config"
	"anklebreaker/internal/domain/registrant"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "anklebreaker",
	Short: "Turn raw event registration exports into a verified, priced session ledger",
	Long: `anklebreaker ingests per-event registration exports (CSV or XLSX),
assigns each registrant a reconciliation status, flags files and sessions
that still need human review, and computes the payout breakdown per source
file and in aggregate.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// app bundles the wired engine dependencies every command needs.
type app struct {
	cfg        config.Config
	store      *sessionstore.FSStore
	registry   *clubregistry.JSONStore
	parser     *ingest.SourceParser
	classifier *registrant.Classifier
	notifier   orchestrators.Notifier
}

// newApp loads configuration and wires the stores.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	store := sessionstore.NewFSStore(cfg.SessionsRoot, generateID)
	store.RetryAttempts = cfg.RenameRetryAttempts
	store.RetryBackoff = cfg.RenameRetryBackoff()

	return &app{
		cfg:        cfg,
		store:      store,
		registry:   clubregistry.NewJSONStore(cfg.SessionsRoot),
		parser:     ingest.NewSourceParser(),
		classifier: registrant.NewClassifier(cfg.CompNames...),
		notifier:   orchestrators.NoopNotifier{},
	}, nil
}

func generateID() string {
	return uuid.New().String()
}

func timeNow() time.Time {
	return time.Now()
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine operations")

	rootCmd.AddCommand(
		newIngestCmd(),
		newSessionsCmd(),
		newShowCmd(),
		newSetStatusCmd(),
		newSetFeeCmd(),
		newPayoutCmd(),
		newPaidCmd(),
		newDeleteCmd(),
		newClubsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the anklebreaker version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("anklebreaker %s\n", version)
		},
	}
}
