package agora

// JoinRequest is the payload for starting an agent. The nested shapes
// mirror the platform's conversational AI agent API.
type JoinRequest struct {
	Name       string     `json:"name"`
	Properties Properties `json:"properties"`
}

// Properties configures the agent's channel, media pipeline and
// third-party service bindings.
type Properties struct {
	Channel        string   `json:"channel"`
	Token          string   `json:"token"`
	AgentRTCUID    string   `json:"agent_rtc_uid"`
	RemoteRTCUIDs  []string `json:"remote_rtc_uids"`
	IdleTimeout    int      `json:"idle_timeout"`

	AdvancedFeatures AdvancedFeatures `json:"advanced_features"`
	Parameters       Parameters       `json:"parameters"`

	LLM LLMConfig `json:"llm"`
	TTS TTSConfig `json:"tts"`
	ASR ASRConfig `json:"asr"`
}

// AdvancedFeatures toggles platform-side capabilities.
type AdvancedFeatures struct {
	EnableAIVAD bool `json:"enable_aivad"`
	EnableRTM   bool `json:"enable_rtm"`
}

// Parameters holds platform transport settings.
type Parameters struct {
	DataChannel string `json:"data_channel"`
}

// SystemMessage is an entry in the LLM system message list.
type SystemMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMConfig points the agent at a chat-completion endpoint. URL may be
// the vendor's API or a local RAG proxy; APIKey is empty for the proxy.
type LLMConfig struct {
	URL             string            `json:"url"`
	APIKey          string            `json:"api_key"`
	SystemMessages  []SystemMessage   `json:"system_messages"`
	MaxHistory      int               `json:"max_history"`
	GreetingMessage string            `json:"greeting_message"`
	FailureMessage  string            `json:"failure_message"`
	Params          map[string]string `json:"params"`
}

// TTSConfig selects the speech-synthesis vendor. SkipPatterns 4 makes
// the synthesizer skip square-bracketed text, which keeps emotion
// markers out of the spoken audio.
type TTSConfig struct {
	Vendor       string            `json:"vendor"`
	Params       map[string]string `json:"params"`
	SkipPatterns []int             `json:"skip_patterns"`
}

// ASRConfig selects the speech-recognition vendor.
type ASRConfig struct {
	Vendor string            `json:"vendor"`
	Params map[string]string `json:"params"`
}

// SkipBracketedText is the TTS skip_patterns value for square brackets.
const SkipBracketedText = 4
