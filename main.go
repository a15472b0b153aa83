package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/edna-dashboard/internal/audio"
	"github.com/iburimskiy/edna-dashboard/internal/chat"
	"github.com/iburimskiy/edna-dashboard/internal/config"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
	"github.com/iburimskiy/edna-dashboard/internal/ui"
	"github.com/iburimskiy/edna-dashboard/internal/upload"
)

var (
	configPath  string
	fixturePath string
	seed        int64
	verbose     bool
	watch       bool
	startRoute  string
	mute        bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "edna",
	Short: "eDNA analysis dashboard",
	Long: `edna opens the eDNA analysis dashboard: taxonomic abundance,
diversity metrics, novel taxa candidates, a simulated upload pipeline and
an assistant that answers questions about the loaded analysis.

Run without arguments to open the window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the dashboard window",
	RunE:  runDashboard,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config merged over the defaults")
	pf.StringVarP(&fixturePath, "fixture", "f", "", "analysis JSON to load instead of the bundled one")
	pf.Int64Var(&seed, "seed", 0, "random seed for particle fields (0 = time based)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&watch, "watch", "w", false, "reload the fixture when the file changes")

	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&startRoute, "route", "/", "view to open first, e.g. /abundance")
		c.Flags().BoolVar(&mute, "mute", false, "disable the completion chime")
	}

	rootCmd.AddCommand(runCmd, simulateCmd, chatCmd, exportCmd, configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("fixture") {
		cfg.Fixture.Path = fixturePath
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("watch") {
		cfg.Fixture.Watch = watch
	}
	return cfg, nil
}

func newRand(cfg *config.Config) *rand.Rand {
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(s))
}

func openStore(cfg *config.Config) (*fixture.Store, error) {
	a, err := fixture.Load(cfg.Fixture.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("analysis loaded",
		zap.String("id", a.ID),
		zap.String("path", cfg.Fixture.Path),
		zap.Int("samples", len(a.Samples())))
	return fixture.NewStore(a), nil
}

// newChat builds the assistant session. A missing API key is not fatal: the
// session answers with the connection fallback instead.
func newChat(ctx context.Context, cfg *config.Config, a *fixture.Analysis) *chat.Session {
	log := logger.Named("chat")
	var gen chat.Generator
	g, err := chat.NewGenAI(ctx, cfg.Chat.APIKey, cfg.Chat.Model)
	switch {
	case errors.Is(err, chat.ErrNoAPIKey):
		log.Warn("no API key configured, assistant runs offline", zap.String("env", cfg.Chat.APIKeyEnv))
	case err != nil:
		log.Error("assistant unavailable", zap.Error(err))
	default:
		gen = g
	}
	return chat.NewSession(gen, a, cfg.Chat.MaxHistory, log)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if cfg.Fixture.Watch && cfg.Fixture.Path != "" {
		w, err := fixture.NewWatcher(cfg.Fixture.Path, cfg.Fixture.Debounce, store, logger.Named("fixture"))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			w.Stop()
			ok, failed := w.Reloads()
			logger.Info("fixture watcher stopped", zap.Int("reloads", ok), zap.Int("failed", failed))
		}()
	}

	var player *audio.Player
	if !mute {
		player = audio.NewPlayer(logger.Named("audio"))
	}

	g, err := ui.NewGame(ui.Options{
		Config:    cfg,
		Logger:    logger.Named("ui"),
		Store:     store,
		Chat:      newChat(ctx, cfg, store.Current()),
		Simulator: upload.NewSimulator(cfg.Upload.Duration, cfg.Upload.Tick, logger.Named("upload")),
		Player:    player,
		Rand:      newRand(cfg),
		Start:     startRoute,
	})
	if err != nil {
		return err
	}
	return ui.Run(g)
}
