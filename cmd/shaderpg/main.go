// Command shaderpg opens a playground window and hot-reloads a WGSL fragment shader and a texture from disk.
//
// Usage:
//
//	shaderpg -shader frag.wgsl [-texture image.png] [-rate 4] [-overlay=false]
//
// Files dropped onto the window are submitted too: .wgsl files as shaders, anything else as a texture.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine"
	"github.com/Overpeek/shaderpg/engine/channel"
	"github.com/Overpeek/shaderpg/engine/clock"
	"github.com/Overpeek/shaderpg/engine/renderer"
)

func main() {
	var (
		shaderPath  = flag.String("shader", "", "WGSL fragment shader to watch")
		texturePath = flag.String("texture", "", "image file to watch and bind as the texture")
		rate        = flag.Float64("rate", clock.DefaultRate, "edit checks per second")
		width       = flag.Int("width", 600, "window width in pixels")
		height      = flag.Int("height", 400, "window height in pixels")
		showOverlay = flag.Bool("overlay", true, "draw the latest error over the output")
		vsync       = flag.Bool("vsync", true, "wait for vertical blank before presenting")
		poll        = flag.Duration("poll", 250*time.Millisecond, "how often watched files are checked")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn or error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(config{
		shaderPath:  *shaderPath,
		texturePath: *texturePath,
		rate:        *rate,
		width:       *width,
		height:      *height,
		overlay:     *showOverlay,
		vsync:       *vsync,
		poll:        *poll,
	}); err != nil {
		common.Logger().Error("shaderpg exited", "error", err)
		os.Exit(1)
	}
}

type config struct {
	shaderPath  string
	texturePath string
	rate        float64
	width       int
	height      int
	overlay     bool
	vsync       bool
	poll        time.Duration
}

func run(cfg config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presentMode := renderer.PresentModeVSync
	if !cfg.vsync {
		presentMode = renderer.PresentModeUncapped
	}

	// handle is assigned before Run, and drops are only delivered while Run is on the stack.
	var handle channel.Handle
	eng, handle, err := engine.Start(windowTitle(cfg.shaderPath),
		engine.WithSize(cfg.width, cfg.height),
		engine.WithUpdateRate(cfg.rate),
		engine.WithErrorOverlay(cfg.overlay),
		engine.WithPresentMode(presentMode),
		engine.WithHostWorkers(2),
		engine.WithDropCallback(func(paths []string) {
			submitDropped(ctx, handle, paths)
		}),
	)
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
			eng.Quit()
		case <-handle.Done():
		}
	}()

	if cfg.shaderPath != "" {
		go newFileWatcher(cfg.shaderPath, cfg.poll).run(ctx, func(data []byte) {
			report(handle.SendShader(ctx, string(data)))("shader", cfg.shaderPath)
		})
	}
	if cfg.texturePath != "" {
		go newFileWatcher(cfg.texturePath, cfg.poll).run(ctx, func(data []byte) {
			report(handle.SendTexture(ctx, data))("texture", cfg.texturePath)
		})
	}

	return eng.Run()
}

func windowTitle(shaderPath string) string {
	if shaderPath == "" {
		return engine.DefaultTitle
	}
	return engine.DefaultTitle + " - " + filepath.Base(shaderPath)
}

func isShaderPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wgsl")
}

// submitDropped reads each dropped file and submits it without blocking the render loop.
func submitDropped(ctx context.Context, handle channel.Handle, paths []string) {
	if handle == nil {
		return
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			common.Logger().Warn("dropped file unreadable", "path", path, "error", err)
			continue
		}

		kind := "texture"
		var results <-chan channel.Result
		if isShaderPath(path) {
			kind = "shader"
			results = handle.SendShaderAsync(string(data))
		} else {
			results = handle.SendTextureAsync(data)
		}
		go func() {
			select {
			case res := <-results:
				report(res.Outcome, res.Err)(kind, path)
			case <-ctx.Done():
			}
		}()
	}
}

// report logs one outcome. It returns a func so the outcome of a send can be passed straight in.
func report(outcome string, err error) func(kind, path string) {
	return func(kind, path string) {
		switch {
		case errors.Is(err, channel.ErrChannelClosed), errors.Is(err, context.Canceled):
			common.Logger().Debug("edit not delivered", "kind", kind, "path", path, "error", err)
		case err != nil:
			common.Logger().Warn("edit failed", "kind", kind, "path", path, "error", err)
		case outcome == channel.OutcomeOK:
			common.Logger().Info("edit applied", "kind", kind, "path", path)
		default:
			common.Logger().Warn("edit rejected", "kind", kind, "path", path, "diagnostic", outcome)
		}
	}
}
