package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cfg := LoadConfig()

	cmd := &cobra.Command{
		Use:           "neonchat",
		Short:         "Room-based chat relay with an AI auto-responder",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "interface to bind")
	cmd.Flags().IntVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "static file port")
	cmd.Flags().IntVar(&cfg.WSPort, "ws-port", cfg.WSPort, "WebSocket port")
	return cmd
}

func run(cfg *Config) error {
	hub := NewHub(cfg)
	ws := NewServer(cfg, hub)
	static, err := NewStaticServer(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() { errCh <- static.ListenAndServe() }()
	go func() { errCh <- ws.ListenAndServe() }()

	log.Infof("NeonChat up — http://%s:%d  ws://%s:%d/ws", cfg.Host, cfg.HTTPPort, cfg.Host, cfg.WSPort)
	if cfg.DefaultAPIKey != "" {
		log.Info("AI default credential found in environment")
	} else {
		log.Info("AI default credential missing — set OPENAI_API_KEY or use /apikey in chat")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down...")
		ws.Shutdown()
		static.Shutdown()
		hub.CloseAll()
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
