package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/doteat/internal/platform/web"
	"github.com/vovakirdan/doteat/internal/session"
)

var flagHTTPAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve game sessions over HTTP and websockets",
	Long: `Start an HTTP server hosting headless game sessions.

Sessions tick on their own at --fps. Clients steer them through the REST
API or a websocket, which also streams a snapshot after every tick.

Endpoints:
  GET    /api/levels
  GET    /api/scores/{game}?limit=10
  POST   /api/sessions                {"mode": "campaign", "level": "", "seed": 0}
  GET    /api/sessions
  GET    /api/sessions/{id}
  DELETE /api/sessions/{id}
  POST   /api/sessions/{id}/intent    {"direction": "left"}
  POST   /api/sessions/{id}/step?ticks=1
  GET    /api/sessions/{id}/board
  GET    /ws/{id}

Examples:
  doteat web
  doteat web --http :9000 --fps 10`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	addGameFlags(webCmd)
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (host:port)")
}

func runWeb(_ *cobra.Command, _ []string) {
	opts, err := gameOptions()
	if err != nil {
		fail("%v", err)
	}

	logger := newLogger("doteat-web")
	manager := session.NewManager(opts, flagFPS)

	webOpts := web.Options{
		Addr:   flagHTTPAddr,
		FPS:    flagFPS,
		Logger: logger,
	}
	if store := openStore(logger); store != nil {
		defer store.Close()
		manager.SetScoreSaver(store)
		webOpts.Scores = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := web.NewServer(manager, webOpts).Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
