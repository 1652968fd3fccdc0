package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/config"
)

// New returns a JSON production logger for env "production" and a
// human-readable development logger otherwise. Every entry carries the
// service name and environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("service", "nihon-flash"), zap.String("env", cfg.Env)), nil
}
