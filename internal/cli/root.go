// Package cli wires the commands Alfred invokes.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avhall/alfred-mpd/internal/cache"
	"github.com/avhall/alfred-mpd/internal/config"
	"github.com/avhall/alfred-mpd/internal/logging"
	"github.com/avhall/alfred-mpd/internal/mpc"
	"github.com/avhall/alfred-mpd/internal/mpd"
	"github.com/avhall/alfred-mpd/internal/native"
	"github.com/avhall/alfred-mpd/internal/workflow"
)

// Version is stamped at build time.
var Version = "dev"

var logCleanup = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "alfred-mpd [query]",
	Short: "Alfred workflow adapter for MPD",
	Long: `alfred-mpd lets the Alfred launcher search and control a Music Player
Daemon. Invoked with a query it prints Script Filter items; with no query
it prints the current player status view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE:          runRoot,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if cfg.Verbose {
			level = "debug"
		}
		logCleanup, err = logging.Setup(logging.Config{
			Level:      level,
			FilePath:   cfg.LogFile,
			MaxSizeMB:  logging.DefaultConfig().MaxSizeMB,
			MaxBackups: logging.DefaultConfig().MaxBackups,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCleanup()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("host", "", "MPD host (default localhost, env MPD_HOST)")
	rootCmd.PersistentFlags().Int("port", 0, "MPD port (default 6600, env MPD_PORT)")
	rootCmd.PersistentFlags().String("mpc", "", "path to the mpc binary (env MPC)")
	rootCmd.PersistentFlags().String("backend", "", "backend: mpc or native")
	rootCmd.PersistentFlags().String("timeout", "", "per-command timeout")
	rootCmd.PersistentFlags().Int("max-results", 0, "truncate track listings (0 = all)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the result cache")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug logging")

	viper.BindPFlag("mpd_host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("mpd_port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("mpc_bin", rootCmd.PersistentFlags().Lookup("mpc"))
	viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("max_results", rootCmd.PersistentFlags().Lookup("max-results"))
	viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the optional config file from the workflow data dir
// or ~/.config/alfred-mpd.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	viper.SetConfigName("alfred-mpd")
	viper.SetConfigType("yaml")
	if dir := os.Getenv("alfred_workflow_data"); dir != "" {
		viper.AddConfigPath(dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config")
	}
	viper.ReadInConfig() // missing file is fine
}

// resolvedCfg holds the configuration for the current invocation; it is
// resolved once (PersistentPreRunE) and reused by the command runners.
var resolvedCfg *config.Config

// buildConfig resolves the effective configuration. Unchanged flags
// rank below env, config file and defaults in viper, so the zero flag
// defaults above never clobber anything.
func buildConfig() (*config.Config, error) {
	if resolvedCfg != nil {
		return resolvedCfg, nil
	}
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	resolvedCfg = cfg
	return cfg, nil
}

// newClient builds the configured backend.
func newClient(cfg *config.Config) mpd.Client {
	if cfg.Backend == config.BackendNative {
		c := native.New(cfg.Host, cfg.Port)
		c.Password = cfg.Password
		c.Timeout = cfg.Timeout
		c.MaxResults = cfg.MaxResults
		return c
	}
	c := mpc.New(cfg.MPCBin, cfg.Host, cfg.Port)
	c.Password = cfg.Password
	c.Timeout = cfg.Timeout
	c.MaxResults = cfg.MaxResults
	return c
}

// newWorkflow builds the workflow with its cache. A missing cache is
// logged and skipped, never fatal.
func newWorkflow(cfg *config.Config) *workflow.Workflow {
	w := &workflow.Workflow{Client: newClient(cfg)}
	if viper.GetBool("no_cache") || cfg.CachePath == "" {
		return w
	}
	store, err := cache.Open(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		slog.Warn("cache unavailable", "path", cfg.CachePath, "err", err)
		return w
	}
	w.Cache = store
	return w
}

// runRoot handles the bare invocation Alfred uses: query text as args.
func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return fail(err)
	}
	w := newWorkflow(cfg)
	defer closeCache(w)

	q := strings.TrimSpace(strings.Join(args, " "))
	return w.Search(cmd.Context(), q).Send(os.Stdout)
}

func closeCache(w *workflow.Workflow) {
	if w.Cache != nil {
		w.Cache.Close()
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// fail prints a launcher-visible error for script-filter commands.
func fail(err error) error {
	workflow.ErrorFeedback(err).Send(os.Stdout)
	return nil
}
