package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avhall/alfred-mpd/internal/cache"
	"github.com/avhall/alfred-mpd/internal/remote"
	"github.com/avhall/alfred-mpd/internal/workflow"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the library (fuzzy)",
	Long:  "Searches the MPD library with field:value tokens (e.g. artist:Bowie) and prints Script Filter items.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search the library (exact match)",
	Args:  cobra.ArbitraryArgs,
	RunE:  runFind,
}

var queueCmd = &cobra.Command{
	Use:   "queue [filter]",
	Short: "Show the play queue",
	Args:  cobra.ArbitraryArgs,
	RunE:  runQueue,
}

var playlistsCmd = &cobra.Command{
	Use:   "playlists [filter]",
	Short: "Show stored playlists",
	Args:  cobra.ArbitraryArgs,
	RunE:  runPlaylists,
}

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Show audio outputs",
	Long:  "Lists MPD's audio outputs as items; selecting one toggles it.",
	RunE:  runOutputs,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the player status view",
	RunE:  runStatus,
}

var doCmd = &cobra.Command{
	Use:   "do <action> [arg]",
	Short: "Perform a selected item's action",
	Long: `Performs the action a selected item carries (add, play, playpos,
playpause, pause, next, prev, clear, load, enable, disable, toggleoutput)
and prints a one-line notification. A single tab-joined argument, as
Alfred passes it, is also accepted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDo,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List valid search types",
	RunE:  runTypes,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	RunE:  runStats,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show MPD and adapter versions",
	RunE:  runVersion,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached results",
	RunE:  runCacheClear,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the websocket remote",
	Long:  "Serves a websocket endpoint that pushes player state changes and accepts playback commands.",
	RunE:  runServe,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(searchCmd, findCmd, queueCmd, playlistsCmd, outputsCmd,
		statusCmd, doCmd, typesCmd, statsCmd, versionCmd, cacheCmd, serveCmd)
}

// withWorkflow builds the workflow for a script-filter command and
// guarantees the cache is closed.
func withWorkflow(fn func(w *workflow.Workflow) error) error {
	cfg, err := buildConfig()
	if err != nil {
		return fail(err)
	}
	w := newWorkflow(cfg)
	defer closeCache(w)
	return fn(w)
}

func runSearch(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.Search(cmd.Context(), strings.Join(args, " ")).Send(os.Stdout)
	})
}

func runFind(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.Find(cmd.Context(), strings.Join(args, " ")).Send(os.Stdout)
	})
}

func runQueue(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.Queue(cmd.Context(), strings.Join(args, " ")).Send(os.Stdout)
	})
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.Playlists(cmd.Context(), strings.Join(args, " ")).Send(os.Stdout)
	})
}

func runOutputs(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.Outputs(cmd.Context()).Send(os.Stdout)
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withWorkflow(func(w *workflow.Workflow) error {
		return w.StatusView(cmd.Context()).Send(os.Stdout)
	})
}

func runDo(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	w := &workflow.Workflow{Client: newClient(cfg)}

	action, arg := args[0], ""
	if len(args) == 2 {
		arg = args[1]
	} else if strings.ContainsRune(action, '\t') {
		action, arg = workflow.DecodeAction(action)
	}

	msg, err := w.Do(cmd.Context(), action, arg)
	if err != nil {
		// notification text goes to stdout either way
		fmt.Println(err.Error())
		return nil
	}
	fmt.Println(msg)
	return nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	types, err := newClient(cfg).SearchTypes(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(types, "\n"))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	stats, err := newClient(cfg).Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Artists: %d\nAlbums: %d\nSongs: %d\n", stats.Artists, stats.Albums, stats.Songs)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	mpdVersion, err := newClient(cfg).Version(cmd.Context())
	if err != nil {
		mpdVersion = "unavailable (" + err.Error() + ")"
	}
	fmt.Printf("alfred-mpd %s\nmpd %s\n", Version, mpdVersion)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if cfg.CachePath == "" {
		return nil
	}
	store, err := cache.Open(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &remote.Server{
		Addr:     cfg.ServeAddr,
		Client:   newClient(cfg),
		MPDAddr:  remote.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
	}
	return srv.Run(ctx)
}
