package api

import (
	"time"

	"github.com/FocuswithJustin/idml2docbook/internal/config"
)

// Defaults used for zero Config fields.
const (
	DefaultPort       = 8080
	DefaultResultTTL  = 10 * time.Minute
	DefaultResultSize = 64
)

// Config holds server configuration.
type Config struct {
	Port           int
	Conversion     config.Config // defaults for every request
	Auth           AuthConfig
	AllowedOrigins []string // CORS and websocket origins, empty allows all
	MaxUploadSize  int64    // request body limit in bytes
	WorkDir        string   // parent of per-request temporary folders

	ResultTTL  time.Duration // how long identical requests reuse a result, negative disables
	ResultSize int
}
