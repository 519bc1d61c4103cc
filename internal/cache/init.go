package cache

import (
	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/logger"
)

// Initialize initializes the cache system
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Info("Initializing cache system")
	return NewInMemoryCache(cfg.Cache.Enabled)
}
