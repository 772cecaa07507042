package led

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/emotion"
	"github.com/auralab/go-concierge/pkg/respeaker"
)

// maxEmotionDuration caps how long a single request may hold the ring.
const maxEmotionDuration = 10 * time.Second

// EmotionRequest asks the ring to play one emotion.
type EmotionRequest struct {
	Emotion  string  `json:"emotion"`
	Duration float64 `json:"duration"` // seconds
	Text     string  `json:"text"`     // reply that carried the emotion, for logs
}

// testColors maps /test/:color names to RGB values.
var testColors = map[string]uint32{
	"red":     0xFF0000,
	"green":   0x00FF00,
	"blue":    0x0000FF,
	"yellow":  0xFFFF00,
	"purple":  0x9932CC,
	"cyan":    0x00FFFF,
	"magenta": 0xFF00FF,
	"orange":  0xFF8800,
	"pink":    0xFF69B4,
	"white":   0xFFFFFF,
}

// handleRoot returns service info.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Emotion LED Service",
		"status":  "running",
		"endpoints": fiber.Map{
			"/emotion":      "POST - Play an emotion color on the LED ring",
			"/status":       "GET - Device status",
			"/doa":          "POST - Return to direction-of-arrival mode",
			"/test/{color}": "GET - Flash a named color",
		},
	})
}

// handleStatus reports whether the ring is reachable. Device absence is
// a normal condition, not an HTTP error.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	ring, err := s.open()
	if err == nil {
		ring.Close()
	}
	s.mu.Unlock()

	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"status":        "ok",
			"message":       "LED ring connected",
			"usb_available": true,
			"device_found":  true,
		})
	case errors.Is(err, respeaker.ErrDeviceNotFound):
		return c.JSON(fiber.Map{
			"status":        "no_device",
			"message":       "ReSpeaker not connected",
			"usb_available": true,
			"device_found":  false,
		})
	default:
		return c.JSON(fiber.Map{
			"status":        "no_device",
			"message":       err.Error(),
			"usb_available": false,
			"device_found":  false,
		})
	}
}

// handleEmotion accepts an emotion and plays it in the background. The
// response does not wait for the animation; the caller is in the middle
// of a voice turn and must not block on LEDs.
func (s *Server) handleEmotion(c *fiber.Ctx) error {
	var req EmotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	label := emotion.Normalize(req.Emotion)

	duration := time.Duration(req.Duration * float64(time.Second))
	if duration <= 0 {
		duration = DefaultEmotionDuration
	}
	if duration > maxEmotionDuration {
		duration = maxEmotionDuration
	}

	log.Info("emotion requested",
		"emotion", label,
		"duration", duration,
		"text", req.Text,
	)

	go s.playEmotion(label, duration)

	return c.JSON(fiber.Map{
		"status":  "playing",
		"emotion": string(label),
		"message": "emotion animation started",
	})
}

// playEmotion breathes the emotion color, holds it, then returns the
// ring to ambient mode. Hardware failures are logged, never surfaced;
// the conversation continues without lights.
func (s *Server) playEmotion(label emotion.Label, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := s.open()
	if err != nil {
		log.Warn("cannot play emotion", "emotion", label, "error", err)
		return
	}
	defer ring.Close()

	rgb := uint32(emotion.ColorOf(label))
	if err := respeaker.Breathe(ring, rgb, respeaker.DefaultSpeed, respeaker.ActiveBrightness); err != nil {
		log.Error("breathe animation failed", "emotion", label, "error", err)
		return
	}

	s.hold(duration)

	if err := respeaker.Ambient(ring); err != nil {
		log.Error("failed to restore ambient mode", "error", err)
	}
}

// handleDoA switches the ring back to the direction-of-arrival
// animation immediately.
func (s *Server) handleDoA(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := s.open()
	if errors.Is(err, respeaker.ErrDeviceNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "ReSpeaker not connected",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer ring.Close()

	if err := respeaker.Ambient(ring); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "ok", "mode": "doa"})
}

// handleTestColor flashes a named color for one second. Synchronous on
// purpose; it exists for bring-up from a shell.
func (s *Server) handleTestColor(c *fiber.Ctx) error {
	name := c.Params("color")
	rgb, ok := testColors[name]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown color: " + name,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := s.open()
	if errors.Is(err, respeaker.ErrDeviceNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "ReSpeaker not connected",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer ring.Close()

	if err := respeaker.Breathe(ring, rgb, respeaker.DefaultSpeed, respeaker.ActiveBrightness); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	s.hold(DefaultEmotionDuration)
	if err := respeaker.Ambient(ring); err != nil {
		log.Error("failed to restore ambient mode", "error", err)
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"color":  name,
	})
}
