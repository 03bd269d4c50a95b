package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/remessa-chaves/internal/config"
	"github.com/nexconsult/remessa-chaves/internal/export"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/worker"
)

// Container holds all service dependencies
type Container struct {
	config     *config.Config
	logger     *logrus.Logger
	pool       *worker.WorkerPool
	Validator  *nfe.Validator
	Remessas   *RemessaService
	XMLService *XMLService
}

// NewContainer creates a new service container and starts the worker pool
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	container := &Container{
		config: cfg,
		logger: logger,
	}
	container.initServices()

	return container, nil
}

// initServices initializes all services
func (c *Container) initServices() {
	c.Validator = nfe.NewValidator(nfe.WithStrictCheckDigit(c.config.Validation.StrictCheckDigit))

	c.pool = worker.NewWorkerPool(c.config.Workers.Count, c.config.Workers.QueueSize, c.Validator, c.logger)
	c.pool.Start()

	c.Remessas = NewRemessaService(c.Validator, c.pool, export.XLSXExporter{}, c.config.Workers.BatchTimeout, c.logger)
	c.XMLService = NewXMLService(c.Validator, c.config.Workers.Count, c.logger)

	c.logger.WithFields(logrus.Fields{
		"workers":            c.config.Workers.Count,
		"strict_check_digit": c.config.Validation.StrictCheckDigit,
	}).Debug("Services initialized")
}

// Close stops the worker pool
func (c *Container) Close() error {
	if c.pool != nil {
		c.pool.Stop()
	}
	return nil
}

// Health reports the state of the services
func (c *Container) Health() map[string]interface{} {
	stats := c.pool.GetStats()

	return map[string]interface{}{
		"workers": map[string]interface{}{
			"status":         "healthy",
			"total":          stats.Workers,
			"active":         stats.ActiveWorkers,
			"completed_jobs": stats.CompletedJobs,
			"queue":          stats.QueueSize,
		},
		"validation": map[string]interface{}{
			"strict_check_digit": c.config.Validation.StrictCheckDigit,
		},
	}
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}
