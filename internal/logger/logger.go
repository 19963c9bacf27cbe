package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the global zap logger. Production environments get JSON
// output; everything else gets the development console encoder.
func Init(environment string) error {
	var (
		log *zap.Logger
		err error
	)

	switch environment {
	case "production":
		log, err = zap.NewProduction()
	default:
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(log)

	return nil
}
