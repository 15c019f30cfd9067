package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/internal/bootstrap"
	"github.com/jt828/hello-observability/internal/config"
	"github.com/jt828/hello-observability/internal/controller"
	"github.com/jt828/hello-observability/internal/router"
	"github.com/jt828/hello-observability/internal/service"
	"github.com/jt828/hello-observability/internal/telemetry"
	"github.com/jt828/hello-observability/pkg/observability"
	"github.com/jt828/hello-observability/pkg/observability/implementation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	obs, err := implementation.NewObservability(cfg.Observability)
	if err != nil {
		panic(err)
	}
	log := obs.Logger()

	if err := obs.Start(ctx); err != nil {
		log.Error("failed to start observability", observability.Err(err))
	}

	idGen, err := bootstrap.InitializeSnowflake(cfg.NodeID)
	if err != nil {
		log.Fatal("failed to initialize snowflake", observability.Err(err))
	}

	requestMetrics := telemetry.NewRequestMetrics(obs.Meter())
	helloSvc := service.NewHelloService(service.WithDelayRange(cfg.Hello.MinDelay, cfg.Hello.MaxDelay))
	helloCtrl := controller.NewHelloController(helloSvc, requestMetrics, obs.Tracer(), log)

	gin.SetMode(cfg.Server.Mode)
	engine := router.New(router.Dependencies{
		ServiceName:     cfg.Observability.ServiceName,
		Logger:          log,
		Meter:           obs.Meter(),
		RequestMetrics:  requestMetrics,
		RequestIDs:      idGen,
		HelloController: helloCtrl,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Info("Shutting down server...")
		cancel()
	}()

	go func() {
		log.Info("HTTP server running", observability.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to serve", observability.Err(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("Graceful stopping HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server", observability.Err(err))
	}
	log.Info("HTTP server stopped")

	if err := obs.Close(shutdownCtx); err != nil {
		log.Error("failed to close observability", observability.Err(err))
	}
}
