package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/phsym/console-slog"
	"golang.org/x/term"

	"github.com/1broseidon/stackwm/internal/api"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/x11"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		listenAddr string
		debug      bool
	)
	opts, _, err := getopt.Getopts(os.Args, "c:l:dvh")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage(os.Stderr)
		return 2
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'l':
			listenAddr = opt.Value
		case 'd':
			debug = true
		case 'v':
			fmt.Println("stackwm " + version)
			return 0
		case 'h':
			usage(os.Stdout)
			return 0
		}
	}

	logger := newLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Error("loading configuration", "err", err)
		return 1
	}
	if listenAddr != "" {
		cfg.APIListen = listenAddr
	}
	if level, ok := logLevel(cfg, debug); ok {
		logger = newLogger(level)
		slog.SetDefault(logger)
	}

	backend, err := x11.NewBackend(cfg, logger)
	if err != nil {
		logger.Error("connecting to X", "err", err)
		return 1
	}
	defer backend.Close()

	if err := backend.Manage(); err != nil {
		logger.Error("claiming window management", "err", err)
		return 1
	}
	if err := backend.AllocColors(); err != nil {
		logger.Error("allocating colors", "err", err)
		return 1
	}
	screens, err := backend.Screens()
	if err != nil {
		logger.Error("querying screens", "err", err)
		return 1
	}
	logger.Info("managing", "screens", len(screens), "desktops", cfg.Desktops)

	commands := make(chan wm.Command, 16)
	status := api.NewStatusStream(os.Stdout)
	mgr := wm.New(cfg, screens, backend.Sinks(status), logger)

	backend.ParseButtons(cfg.Buttons)
	if err := backend.GrabKeys(cfg.Keys); err != nil {
		logger.Error("grabbing keys", "err", err)
		return 1
	}
	backend.Adopt(mgr)

	var server *api.Server
	if cfg.APIListen != "" {
		server = api.NewServer(cfg.APIListen, status, commands, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("api server", "err", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		commands <- wm.Command{Name: "quit"}
	}()

	code := backend.Run(mgr, commands)

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("api shutdown", "err", err)
		}
	}
	return code
}

func usage(w *os.File) {
	fmt.Fprintln(w, "Usage: stackwm [-c config] [-l listen] [-d] [-v]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  -c PATH   Config file (default: ~/.config/stackwm/config.yaml)")
	fmt.Fprintln(w, "  -l ADDR   HTTP API listen address (overrides config)")
	fmt.Fprintln(w, "  -d        Debug logging")
	fmt.Fprintln(w, "  -v        Print version and exit")
}

// newLogger writes human-readable output on a terminal and logfmt
// otherwise, so piping stderr into a file stays parseable.
func newLogger(level slog.Level) *slog.Logger {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func logLevel(cfg *config.Config, debug bool) (slog.Level, bool) {
	if debug {
		return slog.LevelDebug, true
	}
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}
