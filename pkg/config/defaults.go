package config

const (
	defaultAPIListen = ":8080"

	defaultClientAPITarget = "http://localhost:8080"

	defaultModelProvider = "ollama"
	defaultModelTarget   = "http://localhost:11434"
	defaultModelName     = "qwen3"
	defaultModelMaxTurns = 8

	defaultExportFrameRate = 30

	defaultStreamTopic = "kronos.sessions"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Model: ModelConfig{
			Provider: defaultModelProvider,
			Target:   defaultModelTarget,
			Name:     defaultModelName,
			MaxTurns: defaultModelMaxTurns,
		},
		Export: ExportConfig{
			FrameRate: defaultExportFrameRate,
		},
		Stream: StreamConfig{
			Topic: defaultStreamTopic,
		},
	}
}
