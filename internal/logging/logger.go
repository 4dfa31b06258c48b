// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a production JSON logger for "prod"/"production" and a
// development console logger otherwise.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
