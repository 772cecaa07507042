// led-server: HTTP control for the ReSpeaker LED ring
// Receives emotion events from the agent pipeline and turns them into
// breathing color animations, falling back to the direction-of-arrival
// animation between replies.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/auralab/go-concierge/internal/config"
	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/led"
)

var (
	version  = "1.0.0"
	port     = flag.String("port", "", "HTTP port (overrides LED_PORT)")
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
		cfg.LEDPort = *port
	}

	fmt.Println()
	fmt.Println("💡 Emotion LED Service v" + version)
	fmt.Println()

	server := led.NewServer(led.Config{Port: cfg.LEDPort})

	// Probe the ring and drop into ambient mode. The service runs fine
	// without hardware; emotions just become log lines.
	server.Startup()

	go func() {
		log.Info("LED server listening", "port", cfg.LEDPort)
		if err := server.Start(); err != nil {
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
