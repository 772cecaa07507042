// Package config provides configuration for go-concierge commands.
//
// All settings come from environment variables, optionally seeded from a
// .env file in the working directory. Configuration is loaded once at
// process start and never mutated afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for tunables that have sensible out-of-the-box values.
const (
	DefaultChannelName   = "test"
	DefaultAgentRTCUID   = "1001"
	DefaultUserRTCUID    = "1002"
	DefaultIdleTimeout   = 120 // seconds
	DefaultMaxHistory    = 32
	DefaultLLMModel      = "llama-3.3-70b-versatile"
	DefaultTTSModel      = "playai-tts"
	DefaultTTSVoice      = "Arista-PlayAI"
	DefaultASRLanguage   = "en-US"
	DefaultKnowledgePath = "./knowledge.txt"
	DefaultRAGPort       = "8000"
	DefaultLEDPort       = "5000"

	DefaultGreetingMessage = "[welcoming] Hello! Welcome. How can I assist you today?"
	DefaultFailureMessage  = "[thinking] Let me check that information for you. One moment please."
)

// Config holds all process-wide settings.
type Config struct {
	// Communication platform credentials.
	CustomerKey    string
	CustomerSecret string
	AppID          string

	// Channel settings.
	ChannelName string
	Token       string
	AgentRTCUID string
	UserRTCUID  string

	// Agent tunables.
	IdleTimeout int // seconds
	MaxHistory  int

	// Third-party service keys.
	AssemblyAIKey string
	GroqKey       string
	GroqTTSKey    string

	// Prompts and canned messages.
	GreetingMessage string
	FailureMessage  string

	// Model selection.
	LLMModel    string
	TTSModel    string
	TTSVoice    string
	ASRLanguage string

	// Local services.
	RAGServerURL  string // public URL of the RAG proxy; empty disables RAG routing
	KnowledgePath string
	RAGPort       string
	LEDPort       string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		CustomerKey:    os.Getenv("AGORA_CUSTOMER_KEY"),
		CustomerSecret: os.Getenv("AGORA_CUSTOMER_SECRET"),
		AppID:          os.Getenv("AGORA_APP_ID"),

		ChannelName: getenv("CHANNEL_NAME", DefaultChannelName),
		Token:       os.Getenv("AGORA_TOKEN"),
		AgentRTCUID: getenv("AGENT_RTC_UID", DefaultAgentRTCUID),
		UserRTCUID:  getenv("USER_RTC_UID", DefaultUserRTCUID),

		AssemblyAIKey: os.Getenv("ASSEMBLYAI_API_KEY"),
		GroqKey:       os.Getenv("GROQ_API_KEY"),
		GroqTTSKey:    getenv("GROQ_TTS_API_KEY", os.Getenv("GROQ_API_KEY")),

		GreetingMessage: getenv("GREETING_MESSAGE", DefaultGreetingMessage),
		FailureMessage:  getenv("FAILURE_MESSAGE", DefaultFailureMessage),

		LLMModel:    getenv("LLM_MODEL", DefaultLLMModel),
		TTSModel:    getenv("TTS_MODEL", DefaultTTSModel),
		TTSVoice:    getenv("TTS_VOICE", DefaultTTSVoice),
		ASRLanguage: getenv("ASR_LANGUAGE", DefaultASRLanguage),

		RAGServerURL:  os.Getenv("RAG_SERVER_URL"),
		KnowledgePath: getenv("KNOWLEDGE_BASE_PATH", DefaultKnowledgePath),
		RAGPort:       getenv("RAG_PORT", DefaultRAGPort),
		LEDPort:       getenv("LED_PORT", DefaultLEDPort),
	}

	var err error
	if cfg.IdleTimeout, err = getint("IDLE_TIMEOUT", DefaultIdleTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxHistory, err = getint("MAX_HISTORY", DefaultMaxHistory); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireCredentials verifies the REST API credentials needed for any
// agent lifecycle call.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.CustomerKey == "" {
		missing = append(missing, "AGORA_CUSTOMER_KEY")
	}
	if c.CustomerSecret == "" {
		missing = append(missing, "AGORA_CUSTOMER_SECRET")
	}
	if c.AppID == "" {
		missing = append(missing, "AGORA_APP_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequirePlatform verifies everything needed to start an agent: the
// REST credentials plus the RTC token the agent joins with. Stopping an
// agent only needs RequireCredentials.
func (c *Config) RequirePlatform() error {
	if err := c.RequireCredentials(); err != nil {
		return err
	}
	if c.Token == "" {
		return fmt.Errorf("missing required environment variables: AGORA_TOKEN")
	}
	return nil
}

// getenv returns the environment value or a default when unset/blank.
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getint parses an integer environment value with a default.
func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}
