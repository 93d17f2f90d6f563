package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging sets up the global logrus logger.
// Production logs are JSON so the platform log drain can index fields.
func ConfigureLogging(cfg *Config) {
	logrus.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
