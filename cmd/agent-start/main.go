// agent-start: Launch the conversational agent in an RTC channel
// Assembles the full agent configuration (ASR, LLM or RAG proxy, TTS
// with bracket skipping) and asks the platform to join the channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/auralab/go-concierge/internal/config"
	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/agora"
)

var (
	channel   = flag.String("channel", "", "RTC channel name (overrides CHANNEL_NAME)")
	stateFile = flag.String("state", ".agent-id", "file to record the started agent ID")
	logLevel  = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *channel != "" {
		cfg.ChannelName = *channel
	}
	if err := cfg.RequirePlatform(); err != nil {
		log.Error("missing credentials", "error", err)
		os.Exit(1)
	}

	client := agora.NewClient(cfg.AppID, cfg.CustomerKey, cfg.CustomerSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Join(ctx, agora.DefaultJoinRequest(cfg))
	if err != nil {
		log.Error("agent start failed", "error", err)
		os.Exit(1)
	}

	log.Info("agent started",
		"agent_id", resp.AgentID,
		"channel", cfg.ChannelName,
		"status", resp.Status,
	)
	fmt.Println(resp.AgentID)

	if err := os.WriteFile(*stateFile, []byte(resp.AgentID+"\n"), 0o644); err != nil {
		log.Warn("could not record agent ID", "path", *stateFile, "error", err)
	}
}
