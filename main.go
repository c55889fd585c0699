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
	"time"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/logging"
	inknet "InkBoard/internal/net"
	"InkBoard/internal/ui"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "inkboard.yaml"
	}
	return filepath.Join(dir, "inkboard", "config.yaml")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path of the YAML configuration")
	share := flag.Bool("share", false, "share the board read-only on the local network")
	port := flag.Int("port", 0, "port to share on (overrides the configuration)")
	browse := flag.Duration("browse", 0, "list shared boards found within the given time and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *share {
		cfg.Share.Enabled = true
	}
	if *port > 0 {
		cfg.Share.Port = *port
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	board.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *browse > 0 {
		if err := runBrowse(ctx, *browse); err != nil {
			logger.Error("browse failed", "err", err)
			os.Exit(1)
		}
		return
	}

	arg := flag.Arg(0)
	if strings.HasPrefix(arg, inknet.LinkScheme) {
		runClient(ctx, cfg, arg)
		return
	}
	runHost(ctx, cfg, arg)
}

func runBrowse(ctx context.Context, timeout time.Duration) error {
	found, err := inknet.Browse(ctx, timeout)
	for _, f := range found {
		fmt.Printf("%s\t%s\n", f.Name, f.Link())
	}
	return err
}

func runHost(ctx context.Context, cfg config.Config, path string) {
	logging.Logger().Info("starting as host")
	b := board.New(cfg)
	defer b.Close()

	if path != "" {
		if err := openFile(b, path); err != nil {
			logging.Logger().Error("could not open board", "path", path, "err", err)
		}
	}

	opts := ui.Options{}
	if cfg.Share.Enabled {
		hub := inknet.NewHub()
		go func() {
			if err := hub.ListenAndServe(ctx, cfg.Share.Port); err != nil {
				logging.Logger().Error("sharing stopped", "err", err)
			}
		}()
		if cfg.Share.Advertise {
			server, err := inknet.Advertise(cfg.Share.Name, cfg.Share.Port)
			if err != nil {
				logging.Logger().Warn("could not advertise board", "err", err)
			} else {
				defer server.Shutdown()
			}
		}

		changed := make(chan struct{}, 1)
		changed <- struct{}{}
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-changed:
					if err := hub.Publish(b.Encoded()); err != nil {
						logging.Logger().Warn("publish failed", "err", err)
					}
				}
			}
		}()
		opts.OnContentChanged = func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
		opts.ShareLink = inknet.ShareLink(inknet.OutgoingIP(), cfg.Share.Port)
		logging.Logger().Info("share link", "link", opts.ShareLink)
	}

	ui.RunApp(ctx, b, opts)
}

func openFile(b *board.Board, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Load(f)
}

func runClient(ctx context.Context, cfg config.Config, link string) {
	logging.Logger().Info("starting as viewer", "link", link)
	b := board.New(cfg)
	defer b.Close()

	follow := func(ctx context.Context) {
		err := inknet.Subscribe(ctx, link, b.Import)
		switch {
		case errors.Is(err, context.Canceled):
		case err != nil:
			logging.Logger().Error("disconnected from host", "err", err)
		default:
			logging.Logger().Info("host closed the board")
		}
	}
	ui.RunApp(ctx, b, ui.Options{Title: "InkBoard - " + link, ReadOnly: true, Background: follow})
}
