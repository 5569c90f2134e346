// Package main provides the graphbeacon server CLI entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphbeacon/graphbeacon/pkg/gconfig"
	"github.com/graphbeacon/graphbeacon/pkg/graphstore"
	"github.com/graphbeacon/graphbeacon/pkg/graphwire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphbeaconsrv",
		Short: "graphbeacon server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the graphbeacon transaction server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("config", "", "Optional YAML config file overlay")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := gconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var opts []graphstore.Option
	if cfg.DefaultAccountSecret != "" {
		opts = append(opts, graphstore.WithDefaultAccount(cfg.DefaultAccountSecret))
	}
	ds := graphstore.NewDatastore(opts...)
	srv := graphwire.NewServer(ds)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", srv.PingHandler)
	mux.HandleFunc("/transaction", srv.TransactionHandler)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("graphbeaconsrv: listening on :%d", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Println("graphbeaconsrv: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
