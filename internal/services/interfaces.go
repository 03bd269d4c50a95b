package services

import (
	"context"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/worker"
)

// KeyValidator defines the interface for fiscal key validation
type KeyValidator interface {
	// Validate classifies and validates one raw key
	Validate(raw string) models.Verdict
}

// BatchEvaluator defines the interface for parallel remessa evaluation
type BatchEvaluator interface {
	// ProcessBatch evaluates the remessas, keeping input order
	ProcessBatch(ctx context.Context, remessas []models.Remessa) (worker.BatchResponse, error)

	// GetStats returns pool statistics
	GetStats() worker.WorkerPoolStats
}

// ReportExporter defines the interface for report generation
type ReportExporter interface {
	// ExportToFile writes the report of the assessments to path
	ExportToFile(assessments []models.Assessment, path string) error
}
