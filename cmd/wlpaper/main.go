// wlpaper shows images as wallpapers on Wayland compositors that
// support the wlr layer shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/paper"
	"deedles.dev/wlpaper/render"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newRootCmd() (*cobra.Command, error) {
	config, err := paper.LoadConfig()
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "wlpaper [flags] [namespace=]path...",
		Short: "Show images as wallpapers",
		Long: `wlpaper shows each image on a background layer surface, stretched to
fill the output that the compositor puts it on. Each image may be
prefixed with the layer surface namespace to use for it, which
defaults to "` + paper.DefaultNamespace + `".`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(config.LogLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			log.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&config.PoolSize, "pool-size", config.PoolSize, "size of the shared memory pool, such as 64MiB (default computed from the pixel budget)")
	cmd.Flags().IntVar(&config.PixelBudget, "pixel-budget", config.PixelBudget, "largest expected number of pixels per surface")
	cmd.Flags().IntVar(&config.Buffers, "buffers", config.Buffers, "buffers per surface that the compositor may hold at once")

	cmd.AddCommand(newGlobalsCmd())

	return cmd, nil
}

// parseWallpaperArg splits an argument of the form [namespace=]path.
// An equals sign after a slash is part of the path.
func parseWallpaperArg(arg string) (namespace, path string) {
	ns, p, ok := strings.Cut(arg, "=")
	if !ok || (ns == "") || strings.Contains(ns, "/") {
		return paper.DefaultNamespace, arg
	}
	return ns, p
}

func loadWallpapers(args []string) ([]paper.Wallpaper, error) {
	wallpapers := make([]paper.Wallpaper, 0, len(args))
	for _, arg := range args {
		namespace, path := parseWallpaperArg(arg)
		img, err := render.Load(path)
		if err != nil {
			return nil, err
		}
		wallpapers = append(wallpapers, paper.Wallpaper{Image: img, Namespace: namespace})
	}
	return wallpapers, nil
}

func run(ctx context.Context, config paper.Config, args []string) error {
	wallpapers, err := loadWallpapers(args)
	if err != nil {
		return err
	}

	client, err := wl.Dial()
	if err != nil {
		return fmt.Errorf("connect to compositor: %w", err)
	}
	defer client.Close()

	state, err := paper.New(client, config, wallpapers)
	if err != nil {
		return err
	}

	err = state.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	if err != nil {
		return err
	}

	err = state.Close()
	if err != nil {
		log.Debug("close", "err", err)
	}
	return nil
}

func main() {
	log.SetReportTimestamp(true)
	log.SetPrefix("wlpaper")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := newRootCmd()
	if err != nil {
		log.Fatal(err)
	}

	err = cmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}
