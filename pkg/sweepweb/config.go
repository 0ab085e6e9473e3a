package sweepweb

import (
	"dario.cat/mergo"
)

// Config configures the HTTP front end.
type Config struct {
	BindAddress    string
	AllowedOrigins []string
	Preset         string // board dealt when POST /games has no body
}

// NewDefaultConfig listens on localhost, allows every origin and deals
// intermediate boards.
func NewDefaultConfig() Config {
	return Config{
		BindAddress:    "127.0.0.1:8888",
		AllowedOrigins: []string{"*"},
		Preset:         "intermediate",
	}
}

// withDefaults fills the zero fields of cfg from NewDefaultConfig.
func (cfg Config) withDefaults() Config {
	if err := mergo.Merge(&cfg, NewDefaultConfig()); err != nil {
		panic("unable to merge default config: " + err.Error())
	}
	return cfg
}
