package params

import "time"

type WebDaemonConfig struct {
	ListenerConfig

	// Pipeline is the base configuration; request query parameters override it.
	Pipeline PipelineConfig `json:"pipeline"`

	// MaxBodyBytes caps the size of an uploaded track.
	MaxBodyBytes int64 `json:"max_body_bytes"`

	ReadTimeout time.Duration `json:"read_timeout"`

	// Token, when set, is required of every /compress request
	// in the Authorization header or the api_token query parameter.
	Token string `json:"-"`
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		ListenerConfig: DefaultWebListenerConfig(),
		Pipeline:       DefaultPipelineConfig(),
		MaxBodyBytes:   32 << 20,
		ReadTimeout:    30 * time.Second,
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	d := DefaultWebDaemonConfig()
	d.Address = "localhost:3333"
	return d
}
