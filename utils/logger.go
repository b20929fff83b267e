package utils

import (
	"os"

	"go.uber.org/zap"
)

var logger *zap.Logger

func InitLogger() {
	var err error
	if os.Getenv("GIN_MODE") == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
}

// Log returns the process logger, falling back to a no-op logger when
// InitLogger has not run (tests).
func Log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
