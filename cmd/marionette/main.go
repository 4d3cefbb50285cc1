package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phanxgames/marionette"
	"github.com/phanxgames/marionette/ebitenview"
	"github.com/phanxgames/marionette/internal/cli"
	"github.com/phanxgames/marionette/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.New(os.Stderr, openWindow).Execute(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openWindow(ctx context.Context, scene *marionette.Scene, cfg config.Config) error {
	return ebitenview.Run(ctx, scene, ebitenview.RunConfig{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		ShowFPS:      cfg.Window.ShowFPS,
		ResetSeconds: float32(cfg.Camera.ResetSeconds),
		Background:   marionette.ColorWhite,
	})
}
