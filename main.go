package main

import (
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/config"
	"auction-house/internal/hub"
	"auction-house/internal/loader"
	"auction-house/internal/metrics"
	"auction-house/internal/orchestrator"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Fatal("invalid log level", map[string]any{"error": err.Error()})
	}
	gin.SetMode(cfg.GinMode)

	defs, err := loader.LoadFile(cfg.AuctionFile)
	if err != nil {
		utils.Fatal("failed to load auction list", map[string]any{"file": cfg.AuctionFile, "error": err.Error()})
	}

	var rec *metrics.Recorder
	if cfg.StatsdAddr != "" {
		if rec, err = metrics.NewStatsd(cfg.StatsdAddr); err != nil {
			utils.Fatal("failed to start metrics", map[string]any{"addr": cfg.StatsdAddr, "error": err.Error()})
		}
		defer rec.Close()
	}

	broadcastHub := hub.New(cfg.ClientQueue)
	repo := repository.NewMemoryRepo()
	orch := orchestrator.New(
		orchestrator.WithBroadcast(broadcastHub.Broadcast),
		orchestrator.WithRepository(repo),
		orchestrator.WithMetrics(rec),
	)
	biddingSvc := bidding.NewBiddingService(orch, repo)
	router := server.SetupRouter(biddingSvc, broadcastHub, rec)

	if err := orch.LoadAuctions(defs); err != nil {
		utils.Fatal("failed to start auctions", map[string]any{"file": cfg.AuctionFile, "error": err.Error()})
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{"addr": srv.Addr, "auctions": len(defs)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		utils.Info("shutting down auction server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		orch.Shutdown()
		broadcastHub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.Fatal("auction server stopped with error", map[string]any{"error": err.Error()})
	}
	utils.Info("auction server stopped", map[string]any{"users_left": len(orch.Users())})
}
