// shmoopland-server serves Shmoopland sessions over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathoo/shmoopland/config"
	"github.com/nathoo/shmoopland/data"
	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/nlp"
	"github.com/nathoo/shmoopland/loader"
	"github.com/nathoo/shmoopland/logger"
	"github.com/nathoo/shmoopland/server"
	"github.com/nathoo/shmoopland/session"
	"github.com/nathoo/shmoopland/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg, os.Stderr)

	log.Info("Starting Shmoopland server",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"content_dir", cfg.ContentDir,
		"transcript", cfg.Transcript)

	var store *content.Store
	if cfg.ContentDir == "" {
		store, err = loader.LoadFS(data.Game(), loader.WithLogger(log))
	} else {
		store, err = loader.Load(cfg.ContentDir, loader.WithLogger(log))
	}
	if err != nil {
		log.Error("Failed to load content", "error", err)
		os.Exit(1)
	}

	sinkCtx, sinkCancel := context.WithTimeout(context.Background(), 30*time.Second)
	sink, err := transcript.Open(sinkCtx, cfg, log)
	sinkCancel()
	if err != nil {
		log.Error("Failed to open transcript sink", "error", err)
		os.Exit(1)
	}

	opts := []session.Option{
		session.WithTimeout(cfg.SessionTimeout),
		session.WithSeed(cfg.Seed),
		session.WithLogger(log),
	}
	if cfg.NLP {
		opts = append(opts, session.WithTagger(nlp.NewProseTagger()))
	}
	var reader transcript.Reader
	if sink != nil {
		opts = append(opts, session.WithTranscript(sink))
		reader, _ = sink.(transcript.Reader)
	}
	sessions := session.NewManager(store, opts...)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     server.New(sessions, reader, log).Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if sink != nil {
		if err := sink.Close(); err != nil {
			log.Error("Error closing transcript sink", "error", err)
		}
	}

	log.Info("Server exited")
}
