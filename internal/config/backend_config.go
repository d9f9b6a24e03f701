package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar   = "API_BASE_URL"
	apiTimeoutVar   = "API_TIMEOUT"
	apiDirectPUTVar = "API_DIRECT_PUT"
)

type Backend struct{}

var _ BackendConfig = Backend{}

// GetAPIBaseURL returns the REST backend root, e.g. "http://localhost:8080/api"
func (Backend) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, "http://localhost:8080/api"), "/")
}

func (Backend) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(apiTimeoutVar, "15s"))
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetDirectPUT switches updates from POST + _method=PUT to a real PUT.
// Only enable it against a backend known to accept multipart PUT bodies.
func (Backend) GetDirectPUT() bool {
	return GetEnvBool(apiDirectPUTVar, false)
}
