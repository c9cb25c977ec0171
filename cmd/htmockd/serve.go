package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vdobler/htmock/internal/config"
	"github.com/vdobler/htmock/internal/log"
	"github.com/vdobler/htmock/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start a foreground mock server",
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.Int("port", 0, "port to listen on (0 = OS-assigned)")
	flags.Bool("expose", false, "bind 0.0.0.0 instead of 127.0.0.1")
	flags.Bool("https", false, "enable HTTPS with dynamic per-SNI certificates")
	flags.String("ca-cert", "", "path to the CA certificate used to mint leaf certificates")
	flags.String("ca-key", "", "path to the CA private key")
	flags.Int("history-limit", 0, "bounded request history size (0 = default)")
	flags.String("static-mocks-dir", "", "directory of static mock definitions to load at start")
	flags.String("log-level", "", "logrus level: debug, info, warn, error")

	v.BindPFlag("port", flags.Lookup("port"))
	v.BindPFlag("expose", flags.Lookup("expose"))
	v.BindPFlag("https", flags.Lookup("https"))
	v.BindPFlag("ca_cert_path", flags.Lookup("ca-cert"))
	v.BindPFlag("ca_key_path", flags.Lookup("ca-key"))
	v.BindPFlag("history_limit", flags.Lookup("history-limit"))
	v.BindPFlag("static_mocks_dir", flags.Lookup("static-mocks-dir"))
	v.BindPFlag("log_level", flags.Lookup("log-level"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.New(cfg.LogLevel)
	opts := server.Options{
		Port:           cfg.Port,
		Expose:         cfg.Expose,
		HTTPS:          cfg.HTTPS,
		CACertPath:     cfg.CACertPath,
		CAKeyPath:      cfg.CAKeyPath,
		HistoryLimit:   cfg.HistoryLimit,
		StaticMocksDir: cfg.StaticMocksDir,
	}

	srv, err := server.New(opts, logger)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	logger.Printf("htmockd listening on %s", srv.Addr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Printf("shutting down")
	return srv.Close()
}
