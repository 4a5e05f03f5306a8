package handlers

import (
	"time"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/scheduler"
	"github.com/vunguyen00/Netflix/pkg/store"
	"github.com/vunguyen00/Netflix/pkg/warranty"
)

// HandlerService provides HTTP handlers for the API
type HandlerService struct {
	config    *config.Config
	store     *store.Store
	warranty  *warranty.Orchestrator
	scheduler *scheduler.TaskScheduler
	startedAt time.Time
}

// NewHandlerService creates a new handler service
func NewHandlerService(cfg *config.Config, st *store.Store, orch *warranty.Orchestrator) *HandlerService {
	logger.Info("Initializing handler service")

	return &HandlerService{
		config:    cfg,
		store:     st,
		warranty:  orch,
		startedAt: time.Now(),
	}
}

// SetScheduler sets the scheduler reference (called after scheduler is created)
func (h *HandlerService) SetScheduler(s *scheduler.TaskScheduler) {
	h.scheduler = s
}

// GetConfig returns the handler service configuration
func (h *HandlerService) GetConfig() *config.Config {
	return h.config
}

// IsSchedulerAvailable checks if scheduler is available
func (h *HandlerService) IsSchedulerAvailable() bool {
	return h.scheduler != nil
}
