package services

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

// XMLKeyResult is the access key read from one XML file and its verdict
type XMLKeyResult struct {
	File     string          `json:"arquivo"`
	Document nfe.XMLDocument `json:"documento"`
	Verdict  *models.Verdict `json:"validacao,omitempty"`
	Error    string          `json:"erro,omitempty"`

	// EmitenteCNPJValido reports the modulo-11 check of the emitter CNPJ
	EmitenteCNPJValido bool `json:"emitenteCnpjValido"`
}

// XMLService extracts and validates access keys from fiscal XML files
type XMLService struct {
	validator KeyValidator
	limit     int
	logger    *logrus.Logger
}

// NewXMLService creates a new XML service reading at most limit files at once
func NewXMLService(validator KeyValidator, limit int, logger *logrus.Logger) *XMLService {
	if limit < 1 {
		limit = 1
	}
	return &XMLService{validator: validator, limit: limit, logger: logger}
}

// ExtractKeys reads every file in parallel. A file that cannot be read or
// carries no key is reported in its result; only cancellation aborts the run.
func (s *XMLService) ExtractKeys(ctx context.Context, paths []string) ([]XMLKeyResult, error) {
	results := make([]XMLKeyResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// each goroutine owns results[i]
			results[i] = s.extractFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("leitura de XML interrompida: %w", err)
	}
	return results, nil
}

func (s *XMLService) extractFile(path string) XMLKeyResult {
	result := XMLKeyResult{File: path}

	f, err := os.Open(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer f.Close()

	doc, err := nfe.ExtractFromXML(f)
	result.Document = doc
	result.EmitenteCNPJValido = utils.IsValidCNPJ(doc.EmitenteCNPJ)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"file":  path,
			"error": err.Error(),
		}).Warn("XML without access key")
		result.Error = err.Error()
		return result
	}

	verdict := s.validator.Validate(doc.Chave)
	result.Verdict = &verdict
	return result
}
