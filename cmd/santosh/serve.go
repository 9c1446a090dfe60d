package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avasarlabs/santosh"
	"github.com/avasarlabs/santosh/internal/config"
	"github.com/avasarlabs/santosh/internal/flowstore"
	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/internal/responder"
	"github.com/avasarlabs/santosh/internal/webhook"
	"github.com/avasarlabs/santosh/pkg/adapters/openai"
	rlog "github.com/avasarlabs/santosh/pkg/adapters/redis"
	"github.com/avasarlabs/santosh/pkg/adapters/sheet"
	"github.com/avasarlabs/santosh/pkg/adapters/whatsapp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook relay",
	Long:  `Starts the flow refresher and the HTTP server handling webhook verification, inbound events and the admin surface.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := flowstore.New(
			sheet.New(cfg.Flow.SheetURL),
			flowstore.WithLogger(logger),
		)
		go store.Run(ctx, cfg.Flow.RefreshInterval)

		selectorOpts := []responder.Option{responder.WithLogger(logger)}
		if cfg.OpenAI.APIKey != "" {
			gen, err := openai.New(ctx, openai.Config{
				APIKey:  cfg.OpenAI.APIKey,
				Model:   cfg.OpenAI.Model,
				BaseURL: cfg.OpenAI.BaseURL,
			})
			if err != nil {
				fmt.Printf("Error initializing generative fallback: %v\n", err)
				os.Exit(1)
			}
			selectorOpts = append(selectorOpts, responder.WithGenerator(gen))
		} else {
			logger.Info("no OpenAI key configured, generative fallback disabled")
		}
		selector := responder.NewSelector(store, selectorOpts...)

		sender := whatsapp.NewClient(
			cfg.WhatsApp.Token,
			cfg.WhatsApp.PhoneNumberID,
			whatsapp.WithLogger(logger),
		)

		relayOpts := []santosh.Option{santosh.WithLogger(logger)}
		if cfg.Redis.Addr != "" {
			log := rlog.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				rlog.WithTTL(cfg.Redis.TTL),
			)
			defer log.Close()
			relayOpts = append(relayOpts, santosh.WithMessageLog(log))
		} else {
			logger.Info("no redis address configured, conversation log disabled")
		}

		relay := santosh.New(store, selector, sender, relayOpts...)
		server := webhook.NewServer(relay, cfg.VerifyToken, webhook.WithLogger(logger))

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting webhook server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("webhook server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
