// rag-server: Knowledge-augmented chat completion proxy
// Sits between the conversational platform and the LLM, injecting venue
// knowledge and emotion labels into every reply.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/auralab/go-concierge/internal/config"
	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/knowledge"
	"github.com/auralab/go-concierge/pkg/llm"
	"github.com/auralab/go-concierge/pkg/rag"
)

var (
	version  = "1.0.0"
	port     = flag.String("port", "", "HTTP port (overrides RAG_PORT)")
	kbPath   = flag.String("knowledge", "", "knowledge base file (overrides KNOWLEDGE_BASE_PATH)")
	logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.RAGPort = *port
	}
	if *kbPath != "" {
		cfg.KnowledgePath = *kbPath
	}

	fmt.Println()
	fmt.Println("📚 Concierge RAG Server v" + version)
	fmt.Println()

	// Knowledge loads once at startup. A missing file is survivable;
	// the proxy still forwards completions, just without context.
	kb, err := knowledge.Load(cfg.KnowledgePath)
	if err != nil {
		log.Warn("knowledge base unavailable, continuing without context",
			"path", cfg.KnowledgePath, "error", err)
		kb = knowledge.New("")
	} else {
		log.Info("knowledge base loaded",
			"path", cfg.KnowledgePath,
			"sections", kb.Sections(),
		)
	}

	provider, err := llm.NewClient(
		llm.WithAPIKey(cfg.GroqKey),
		llm.WithModel(cfg.LLMModel),
	)
	if err != nil {
		log.Error("LLM client init failed", "error", err)
		os.Exit(1)
	}
	defer provider.Close()
	if !provider.Configured() {
		log.Warn("GROQ_API_KEY not set; completions will fail upstream")
	}

	server := rag.NewServer(rag.Config{
		Port:         cfg.RAGPort,
		Knowledge:    kb,
		LLM:          provider,
		DefaultModel: cfg.LLMModel,
	})

	go func() {
		log.Info("RAG server listening",
			"port", cfg.RAGPort,
			"endpoint", "/rag/chat/completions",
		)
		if err := server.Start(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
