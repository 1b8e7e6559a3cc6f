package app

import (
	"strings"

	"github.com/charlesng35/portfolio/pkg/logger"
)

// ConfigureLogging initialises the global logger, defaulting to info. Development
// environments get the human readable console encoder.
func ConfigureLogging(cfg ServerConfig) error {
	level := strings.TrimSpace(cfg.LogLevel)
	if level == "" {
		level = "info"
	}
	return logger.Init(logger.Options{
		Level:       level,
		Development: cfg.IsDevelopment(),
		Fields: map[string]any{
			"service":     "portfolio",
			"environment": strings.ToLower(strings.TrimSpace(cfg.Environment)),
		},
	})
}
