// Package web exposes the mock interview service over HTTP: JSON routes
// for the interview lifecycle, multipart audio endpoints, and a
// websocket feed of live session events.
package web

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/voxprep/go-interview/internal/log"
	"github.com/voxprep/go-interview/pkg/hub"
	"github.com/voxprep/go-interview/pkg/interview"
)

// ServiceName is reported by the banner and health endpoints.
const ServiceName = "go-interview"

// Server is the HTTP front end for the interview service.
type Server struct {
	app    *fiber.App
	svc    *interview.Service
	events *hub.Hub
	logger *slog.Logger
	port   int
}

// NewServer wires the fiber app, middleware, and routes. The events hub
// carries session lifecycle events to websocket subscribers; the caller
// connects it to the service via ServiceOptions.OnEvent.
func NewServer(svc *interview.Service, events *hub.Hub, port int) *Server {
	s := &Server{
		svc:    svc,
		events: events,
		logger: log.Component("web"),
		port:   port,
	}

	app := fiber.New(fiber.Config{
		AppName:               ServiceName,
		DisableStartupMessage: true,
		BodyLimit:             25 * 1024 * 1024, // audio uploads
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlog.New(fiberlog.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/", s.handleBanner)
	app.Get("/health", s.handleHealth)

	app.Post("/start-interview", s.handleStartInterview)
	app.Post("/submit-answer", s.handleSubmitAnswer)
	app.Get("/session/:id", s.handleSession)
	app.Post("/session/:id/feedback", s.handleFeedback)
	app.Get("/sessions", s.handleSessions)

	app.Post("/generate-questions", s.handleGenerateQuestions)
	app.Post("/evaluate-answers", s.handleEvaluateAnswers)

	app.Post("/transcribe-audio", s.handleTranscribeAudio)
	app.Post("/audio-answer/:id", s.handleAudioAnswer)
	app.Post("/text-to-speech", s.handleTextToSpeech)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start runs the event hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.events.Run()
	s.logger.Info("http server listening", "port", s.port)
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleEventsWS subscribes a websocket client to the session event feed.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
