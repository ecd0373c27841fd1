package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"radiodash/internal/amqp"
	"radiodash/internal/backend"
	"radiodash/internal/cache"
	"radiodash/internal/cli"
	"radiodash/internal/core"
	apphttp "radiodash/internal/http"
	applog "radiodash/internal/log"
	"radiodash/internal/middleware/ratelimit"
	"radiodash/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid report source configuration", "error", err)
		os.Exit(1)
	}
	src, err := backend.NewFactory(logger.WithComponent(applog.ComponentSource).Logger).CreateSource(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize report source", "error", err, "source", cfg.ReportSource)
		os.Exit(1)
	}
	if src.Cleanup != nil {
		defer func() {
			if err := src.Cleanup(); err != nil {
				logger.Warn("Report source cleanup failed", "error", err)
			}
		}()
	}

	loc := cfg.Location()
	reports := cache.NewReportCache(
		core.ParseOptions{MonthFirst: cfg.ReportMonthFirst},
		func() time.Time { return time.Now().In(loc) },
		logger.WithComponent(applog.ComponentCache).Logger,
	)
	svc := services.NewReportService(src.Reader, reports, logger.Logger)

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
		AdminRateLimit: ratelimit.DefaultConfig(),
	})
	if err != nil {
		logger.Error("Failed to initialize HTTP server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting radiodash server", applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port, applog.FieldSource, svc.Source(), "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		amqpLogger := logger.WithComponent(applog.ComponentAMQP)
		g.Go(func() error {
			amqpLogger.Info("Listening for reload commands", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			err := amqpClient.ConsumeReload(gctx, svc.HandleReload)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
