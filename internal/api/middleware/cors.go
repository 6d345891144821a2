package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

// DefaultCORSConfig allows any origin to call the evaluation API. The API is
// stateless and reads no cookies, so credentials are never allowed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Accept",
			"Origin",
			RequestIDHeader,
		},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
}

// WithOrigins returns a copy of cfg restricted to origins. An empty list or
// a list containing "*" allows every origin.
func (cfg CORSConfig) WithOrigins(origins []string) CORSConfig {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOrigins = []string{"*"}
			return cfg
		}
		if origin != "" {
			cleaned = append(cleaned, origin)
		}
	}
	if len(cleaned) > 0 {
		cfg.AllowOrigins = cleaned
	}
	return cfg
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: cfg.ExposeHeaders,
		MaxAge:        cfg.MaxAge,
	}
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(conf)
}
