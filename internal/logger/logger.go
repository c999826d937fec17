// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/config"
)

// Setup applies level and format from config to the standard logrus logger.
// Unknown levels fall back to info; format "json" selects the JSON formatter.
func Setup(cfg *config.LogConfig) {
	SetupWithOutput(cfg, os.Stdout)
}

// SetupWithOutput is Setup with an explicit writer.
func SetupWithOutput(cfg *config.LogConfig, out io.Writer) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(out)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
