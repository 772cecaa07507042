// Package rag provides the knowledge-lookup chat-completion proxy.
//
// The server accepts OpenAI-style chat completion requests, augments
// them with sections retrieved from a static knowledge base, forwards
// the result to an upstream LLM and tags replies with an emotion label.
// The communication platform points its custom-LLM URL at this server.
package rag

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/auralab/go-concierge/pkg/knowledge"
	"github.com/auralab/go-concierge/pkg/llm"
)

// DefaultFailureMessage is spoken when the upstream LLM is unreachable.
const DefaultFailureMessage = "[sad] I apologize, I'm having trouble right now. Please ask at the information desk."

// Config assembles a Server.
type Config struct {
	// Port to listen on.
	Port string

	// Knowledge is the loaded knowledge base. Required; may be empty.
	Knowledge *knowledge.Base

	// LLM is the upstream chat-completion provider. Required.
	LLM llm.Provider

	// DefaultModel is used when a request omits the model.
	DefaultModel string

	// SystemPrompt overrides the built-in emotion instruction prompt.
	SystemPrompt string

	// FailureMessage overrides the canned upstream-failure reply.
	FailureMessage string
}

// Server is the RAG proxy HTTP server.
type Server struct {
	app        *fiber.App
	port       string
	kb         *knowledge.Base
	llm        llm.Provider
	model      string
	prompt     string
	failureMsg string
}

// NewServer creates the proxy with its routes registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		port:       cfg.Port,
		kb:         cfg.Knowledge,
		llm:        cfg.LLM,
		model:      cfg.DefaultModel,
		prompt:     cfg.SystemPrompt,
		failureMsg: cfg.FailureMessage,
	}
	if s.kb == nil {
		s.kb = knowledge.New("")
	}
	if s.prompt == "" {
		s.prompt = DefaultSystemPrompt
	}
	if s.failureMsg == "" {
		s.failureMsg = DefaultFailureMessage
	}

	app := fiber.New(fiber.Config{
		AppName:               "concierge-rag",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Post("/rag/chat/completions", s.handleCompletions)

	s.app = app
	return s
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
