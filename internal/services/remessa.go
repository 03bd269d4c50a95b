package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/remessa"
)

// ErrEmptyFile is returned for a remessa file without content
var ErrEmptyFile = errors.New("arquivo de remessas vazio")

// RemessaService loads, evaluates and exports remessas
type RemessaService struct {
	validator    *nfe.Validator
	evaluator    BatchEvaluator
	exporter     ReportExporter
	batchTimeout time.Duration
	logger       *logrus.Logger
}

// NewRemessaService creates a new remessa service
func NewRemessaService(validator *nfe.Validator, evaluator BatchEvaluator, exporter ReportExporter, batchTimeout time.Duration, logger *logrus.Logger) *RemessaService {
	return &RemessaService{
		validator:    validator,
		evaluator:    evaluator,
		exporter:     exporter,
		batchTimeout: batchTimeout,
		logger:       logger,
	}
}

// LoadFile reads remessas from a JSON file. The file may hold a single
// remessa, an array of remessas or an object with a "remessas" array.
// Remessas without filename are named after the file.
func (s *RemessaService) LoadFile(path string) ([]models.Remessa, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	remessas, err := DecodeRemessas(data)
	if err != nil {
		return nil, fmt.Errorf("falha ao decodificar %s: %w", path, err)
	}

	base := filepath.Base(path)
	for i := range remessas {
		if remessas[i].Filename == "" {
			remessas[i].Filename = base
		}
	}

	s.logger.WithFields(logrus.Fields{
		"file":     path,
		"remessas": len(remessas),
	}).Debug("Remessas loaded")

	return remessas, nil
}

// DecodeRemessas decodes the JSON shapes accepted by LoadFile
func DecodeRemessas(data []byte) ([]models.Remessa, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if data[0] == '[' {
		var remessas []models.Remessa
		if err := json.Unmarshal(data, &remessas); err != nil {
			return nil, err
		}
		return remessas, nil
	}

	var wrapper struct {
		Remessas []models.Remessa `json:"remessas"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Remessas != nil {
		return wrapper.Remessas, nil
	}

	var single models.Remessa
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []models.Remessa{single}, nil
}

// Evaluate assesses every remessa through the worker pool, bounded by the
// configured batch timeout
func (s *RemessaService) Evaluate(ctx context.Context, remessas []models.Remessa) ([]models.Assessment, error) {
	if s.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.batchTimeout)
		defer cancel()
	}

	resp, err := s.evaluator.ProcessBatch(ctx, remessas)
	if err != nil {
		return nil, err
	}

	assessments := make([]models.Assessment, len(resp.Results))
	for i, r := range resp.Results {
		assessments[i] = r.Assessment
	}

	s.logger.WithFields(logrus.Fields{
		"remessas": resp.Stats.Total,
		"duration": resp.Stats.Duration,
	}).Info("Remessas evaluated")

	return assessments, nil
}

// List filters, sorts and evaluates remessas
func (s *RemessaService) List(ctx context.Context, remessas []models.Remessa, filters models.Filters, column models.SortColumn, order models.SortOrder) ([]models.Assessment, error) {
	selected := remessa.ApplyFiltersWith(s.validator, remessas, filters)
	if column != "" {
		selected = remessa.Sort(selected, column, order)
	}
	return s.Evaluate(ctx, selected)
}

// Export evaluates the remessas and writes the report to path
func (s *RemessaService) Export(ctx context.Context, remessas []models.Remessa, path string) ([]models.Assessment, error) {
	assessments, err := s.Evaluate(ctx, remessas)
	if err != nil {
		return nil, err
	}

	if err := s.exporter.ExportToFile(assessments, path); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"file":     path,
		"remessas": len(assessments),
	}).Info("Report exported")

	return assessments, nil
}
