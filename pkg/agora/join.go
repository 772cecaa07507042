package agora

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/auralab/go-concierge/internal/config"
	"github.com/auralab/go-concierge/pkg/llm"
	"github.com/auralab/go-concierge/pkg/rag"
)

// DefaultJoinRequest assembles the standard agent configuration from
// process config. The LLM block points at the local RAG proxy when one
// is configured, otherwise straight at the vendor API; the proxy holds
// its own upstream credential, so the payload carries no API key on
// that path. TTS skips bracketed text so the emotion labels stay
// silent.
func DefaultJoinRequest(cfg *config.Config) *JoinRequest {
	llmURL := llm.DefaultBaseURL + "/chat/completions"
	llmKey := cfg.GroqKey
	if cfg.RAGServerURL != "" {
		llmURL = strings.TrimRight(cfg.RAGServerURL, "/") + "/rag/chat/completions"
		llmKey = ""
	}

	return &JoinRequest{
		Name: fmt.Sprintf("%s-%s", cfg.ChannelName, uuid.New().String()[:8]),
		Properties: Properties{
			Channel:       cfg.ChannelName,
			Token:         cfg.Token,
			AgentRTCUID:   cfg.AgentRTCUID,
			RemoteRTCUIDs: []string{cfg.UserRTCUID},
			IdleTimeout:   cfg.IdleTimeout,

			AdvancedFeatures: AdvancedFeatures{
				EnableAIVAD: true,
				EnableRTM:   true,
			},
			Parameters: Parameters{
				DataChannel: "rtm",
			},

			LLM: LLMConfig{
				URL:    llmURL,
				APIKey: llmKey,
				SystemMessages: []SystemMessage{
					{Role: "system", Content: rag.DefaultSystemPrompt},
				},
				MaxHistory:      cfg.MaxHistory,
				GreetingMessage: cfg.GreetingMessage,
				FailureMessage:  cfg.FailureMessage,
				Params: map[string]string{
					"model": cfg.LLMModel,
				},
			},
			TTS: TTSConfig{
				Vendor: "groq",
				Params: map[string]string{
					"api_key": cfg.GroqTTSKey,
					"model":   cfg.TTSModel,
					"voice":   cfg.TTSVoice,
				},
				SkipPatterns: []int{SkipBracketedText},
			},
			ASR: ASRConfig{
				Vendor: "assemblyai",
				Params: map[string]string{
					"api_key":  cfg.AssemblyAIKey,
					"language": cfg.ASRLanguage,
				},
			},
		},
	}
}
