// Package led exposes the ReSpeaker LED ring over HTTP so the agent
// pipeline can flash emotion colors as replies stream in.
//
// The service stays up without hardware: requests against a missing
// device report the condition instead of failing the process, so the
// agent keeps talking when the ring is unplugged.
package led

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/emotion"
	"github.com/auralab/go-concierge/pkg/respeaker"
)

// DefaultEmotionDuration is how long an emotion breathes before the
// ring returns to ambient mode.
const DefaultEmotionDuration = 1 * time.Second

// Config assembles a Server.
type Config struct {
	// Port to listen on.
	Port string
}

// Server is the LED control HTTP server. A mutex serializes access to
// the ring; the USB handle does not tolerate overlapping transfers.
type Server struct {
	app  *fiber.App
	port string

	mu   sync.Mutex
	open func() (respeaker.Ring, error)
	hold func(d time.Duration)
}

// NewServer creates the LED service with its routes registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		port: cfg.Port,
		open: respeaker.Open,
		hold: time.Sleep,
	}

	app := fiber.New(fiber.Config{
		AppName:               "concierge-led",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/status", s.handleStatus)
	app.Post("/emotion", s.handleEmotion)
	app.Post("/doa", s.handleDoA)
	app.Get("/test/:color", s.handleTestColor)

	s.app = app
	return s
}

// Startup probes the device once and, when present, puts the ring into
// the ambient animation. Logs the emotion palette for reference.
func (s *Server) Startup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := s.open()
	if err != nil {
		log.Warn("LED ring not available at startup", "error", err)
		return
	}
	defer ring.Close()

	if err := respeaker.Ambient(ring); err != nil {
		log.Warn("failed to set ambient mode", "error", err)
		return
	}

	log.Info("LED ring initialized in ambient mode")
	for _, label := range emotion.Labels() {
		log.Debug("emotion color", "emotion", label, "color", emotion.ColorOf(label).Hex())
	}
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
