package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Doteat SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. The command sent by the client
picks the mode: "endless" plays the endless mode, anything else the
campaign. Scores are stored per-server (all users share the same
leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.doteat/host_key

Examples:
  doteat serve                           # Listen on :23234 with auto-generated key
  doteat serve --ssh :2222               # Listen on port 2222
  doteat serve --host-key ./my_host_key  # Use specific host key
  doteat serve --db postgres://localhost/doteat?sslmode=disable

Users can connect with:
  ssh localhost -p 23234
  ssh localhost -p 23234 -t endless`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	addGameFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	opts, err := gameOptions()
	if err != nil {
		fail("%v", err)
	}
	doteat.Configure(opts)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = newLogger("doteat-ssh")

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fail("creating server: %v", err)
	}

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
