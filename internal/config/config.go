package config

import "time"

type Config interface {
	EnvConfig
	BackendConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetLogLevel() string
}

type BackendConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetDirectPUT() bool
}

type mainConfig struct {
	EnvVars
	Backend
	Security
}

func New() Config {
	return mainConfig{}
}
