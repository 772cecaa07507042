// agent-stop: Remove the conversational agent from its channel
// The agent ID comes from -agent, the first argument, or the state file
// written by agent-start.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/auralab/go-concierge/internal/config"
	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/agora"
)

var (
	agentID   = flag.String("agent", "", "ID of the agent to stop")
	stateFile = flag.String("state", ".agent-id", "state file written by agent-start")
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
	if err := cfg.RequireCredentials(); err != nil {
		log.Error("missing credentials", "error", err)
		os.Exit(1)
	}

	id, fromState := resolveAgentID()
	if id == "" {
		log.Error("no agent ID given and no state file found", "state", *stateFile)
		os.Exit(1)
	}

	client := agora.NewClient(cfg.AppID, cfg.CustomerKey, cfg.CustomerSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Leave(ctx, id); err != nil {
		log.Error("agent stop failed", "agent_id", id, "error", err)
		os.Exit(1)
	}

	log.Info("agent stopped", "agent_id", id)

	if fromState {
		if err := os.Remove(*stateFile); err != nil {
			log.Warn("could not remove state file", "path", *stateFile, "error", err)
		}
	}
}

// resolveAgentID finds the target agent. The second return reports
// whether the ID came from the state file, in which case the file is
// cleaned up after a successful stop.
func resolveAgentID() (string, bool) {
	if *agentID != "" {
		return *agentID, false
	}
	if args := flag.Args(); len(args) > 0 {
		return args[0], false
	}
	data, err := os.ReadFile(*stateFile)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
