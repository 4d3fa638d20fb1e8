// interviewd: HTTP service for AI mock interviews.
// Generates topic questions with an LLM, tracks session progress,
// transcribes spoken answers, and voices questions back.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voxprep/go-interview/internal/config"
	"github.com/voxprep/go-interview/internal/log"
	"github.com/voxprep/go-interview/pkg/hub"
	"github.com/voxprep/go-interview/pkg/inference"
	"github.com/voxprep/go-interview/pkg/interview"
	"github.com/voxprep/go-interview/pkg/stt"
	"github.com/voxprep/go-interview/pkg/tts"
	"github.com/voxprep/go-interview/pkg/web"
)

var configPath = flag.String("config", "config.yaml", "Path to YAML config file")

func main() {
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	log.Init(cfg.Server.LogLevel)
	logger := log.Component("main")

	var (
		chat   inference.Provider
		speech stt.Provider
		voice  tts.Provider
	)
	if cfg.OpenAI.APIKey != "" {
		chat, err = inference.NewClient(
			inference.WithAPIKey(cfg.OpenAI.APIKey),
			inference.WithBaseURL(cfg.OpenAI.BaseURL),
			inference.WithModel(cfg.OpenAI.ChatModel),
			inference.WithTimeout(cfg.OpenAI.Timeout),
		)
		if err != nil {
			log.Error("chat client init failed", "error", err)
			os.Exit(1)
		}
		defer chat.Close()

		speech, err = stt.NewOpenAI(
			stt.WithAPIKey(cfg.OpenAI.APIKey),
			stt.WithModel(cfg.OpenAI.STTModel),
			stt.WithTimeout(cfg.OpenAI.Timeout),
		)
		if err != nil {
			log.Error("stt client init failed", "error", err)
			os.Exit(1)
		}
		defer speech.Close()

		voice, err = tts.NewOpenAI(
			tts.WithAPIKey(cfg.OpenAI.APIKey),
			tts.WithModel(cfg.OpenAI.TTSModel),
			tts.WithVoice(cfg.OpenAI.Voice),
			tts.WithTimeout(cfg.OpenAI.Timeout),
		)
		if err != nil {
			log.Error("tts client init failed", "error", err)
			os.Exit(1)
		}
		defer voice.Close()
	} else {
		logger.Warn("OPENAI_API_KEY not set, starting degraded: interview endpoints unavailable")
	}

	events := hub.New("events")
	svc := interview.NewService(interview.ServiceOptions{
		Store:             interview.NewMemoryStore(),
		Chat:              chat,
		STT:               speech,
		TTS:               voice,
		OnEvent:           func(e interview.Event) { events.BroadcastJSON(e) },
		DefaultDifficulty: cfg.Interview.DefaultDifficulty,
		DefaultQuestions:  cfg.Interview.DefaultQuestions,
		MaxQuestions:      cfg.Interview.MaxQuestions,
	})

	server := web.NewServer(svc, events, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	logger.Info("interviewd started",
		"port", cfg.Server.Port,
		"ready", svc.Ready(),
		"chat_model", cfg.OpenAI.ChatModel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timed out")
	}
}
