package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider backends selectable via AI_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

const systemPrompt = `You are Zen, a helpful and concise voice assistant.

Your personality:
- Friendly but professional
- Clear and concise in your responses (keep answers brief for voice interaction)
- Proactive in offering solutions

Guidelines:
- Keep responses under 2-3 sentences when possible
- For complex topics, offer to elaborate if the user wants more details
- When asked to perform system tasks, acknowledge and confirm the action

Remember: You're speaking, not typing, so avoid overly long explanations.`

// Config holds every runtime setting of the assistant. Values come from
// the environment (optionally seeded from a .env file) with defaults
// matching a stock desktop install.
type Config struct {
	// AI provider
	Provider     string
	OpenAIKey    string
	OpenAIModel  string
	GeminiKey    string
	GeminiModel  string
	OllamaModel  string
	OllamaURL    string
	SystemPrompt string

	// Voice
	SpeechRate   int     // words per minute
	SpeechVolume float64 // 0.0 .. 1.0
	AsyncSpeech  bool

	// Recognition
	ListenTimeout   time.Duration
	PhraseTimeLimit time.Duration
	WhisperModel    string

	// Wake word
	WakeWordEnabled     bool
	WakeWord            string
	WakeWordSensitivity float64

	// Session
	CacheEnabled       bool
	CacheSize          int
	MaxHistoryLength   int
	HistoryTokenBudget int

	// Storage
	TasksFile string
	MemoryDB  string

	// Networking
	SocksProxy string // empty = direct
	BusAddr    string

	// Logging
	LogLevel         string
	LogToFile        bool
	LogDir           string
	LogRotationSizeMB int
	LogRetentionDays  int
}

// Load reads envFile (ignored if missing) and assembles the Config from
// the environment.
func Load(envFile string) *Config {
	godotenv.Load(envFile)

	return &Config{
		Provider:     getStr("AI_PROVIDER", ProviderGemini),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getStr("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getStr("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaModel:  getStr("OLLAMA_MODEL", "llama3"),
		OllamaURL:    getStr("OLLAMA_URL", "http://127.0.0.1:11434/v1"),
		SystemPrompt: getStr("SYSTEM_PROMPT", systemPrompt),

		SpeechRate:   getInt("SPEECH_RATE", 150),
		SpeechVolume: getFloat("SPEECH_VOLUME", 0.9),
		AsyncSpeech:  getBool("ASYNC_SPEECH", true),

		ListenTimeout:   getSeconds("LISTEN_TIMEOUT", 5),
		PhraseTimeLimit: getSeconds("PHRASE_TIME_LIMIT", 10),
		WhisperModel:    getStr("WHISPER_MODEL", "models/ggml-base.en.bin"),

		WakeWordEnabled:     getBool("WAKE_WORD_ENABLED", false),
		WakeWord:            getStr("WAKE_WORD", "zen"),
		WakeWordSensitivity: getFloat("WAKE_WORD_SENSITIVITY", 0.5),

		CacheEnabled:       getBool("CACHE_ENABLED", true),
		CacheSize:          getInt("CACHE_SIZE", 50),
		MaxHistoryLength:   getInt("MAX_HISTORY_LENGTH", 10),
		HistoryTokenBudget: getInt("HISTORY_TOKEN_BUDGET", 2048),

		TasksFile: getStr("TASKS_FILE", "brain_data/tasks.json"),
		MemoryDB:  getStr("MEMORY_DB", "brain_data/memory.db"),

		SocksProxy: os.Getenv("SOCKS_PROXY"),
		BusAddr:    getStr("BUS_ADDR", "127.0.0.1:8092"),

		LogLevel:          getStr("LOG_LEVEL", "info"),
		LogToFile:         getBool("LOG_TO_FILE", true),
		LogDir:            getStr("LOG_DIR", "logs"),
		LogRotationSizeMB: getInt("LOG_ROTATION_SIZE_MB", 10),
		LogRetentionDays:  getInt("LOG_RETENTION_DAYS", 7),
	}
}

// Validate reports every configuration problem at once so the user can
// fix the .env file in one pass.
func (c *Config) Validate() []error {
	var errs []error

	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai"))
		}
	case ProviderGemini:
		if c.GeminiKey == "" {
			errs = append(errs, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini"))
		}
	case ProviderOllama:
		// local, no key
	default:
		errs = append(errs, fmt.Errorf("invalid AI_PROVIDER: %q (want openai, gemini or ollama)", c.Provider))
	}

	if c.WakeWordSensitivity < 0 || c.WakeWordSensitivity > 1 {
		errs = append(errs, fmt.Errorf("WAKE_WORD_SENSITIVITY must be in [0,1], got %v", c.WakeWordSensitivity))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize))
	}
	if c.MaxHistoryLength <= 0 {
		errs = append(errs, fmt.Errorf("MAX_HISTORY_LENGTH must be positive, got %d", c.MaxHistoryLength))
	}

	return errs
}

func getStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}
