package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/remessa-chaves/internal/config"
	"github.com/nexconsult/remessa-chaves/internal/logger"
	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/worker"
)

const (
	nfeKey = "35230112345678000195550010000000011123456785"
	cteKey = "35230112345678000195570010000000011123456784"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:     config.LogConfig{Level: "error", Format: "text"},
		Workers: config.WorkersConfig{Count: 2, QueueSize: 4, BatchTimeout: 10 * time.Second},
		Export:  config.ExportConfig{Dir: "."},
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := NewContainer(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Workers.Count = 0

	_, err := NewContainer(cfg, logger.Discard())

	assert.Error(t, err)
}

func TestContainer_Health(t *testing.T) {
	c := newTestContainer(t, testConfig())

	health := c.Health()

	workers := health["workers"].(map[string]interface{})
	assert.Equal(t, "healthy", workers["status"])
	assert.Equal(t, 2, workers["total"])
	assert.Same(t, c.GetConfig(), c.config)
	assert.NotNil(t, c.GetLogger())
}

func TestDecodeRemessas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"array", `[{"filename":"a"},{"filename":"b"}]`, []string{"a", "b"}},
		{"wrapper", `{"remessas":[{"filename":"c"}]}`, []string{"c"}},
		{"single", `{"filename":"d","titulos":[{"chaveNotaFiscal":"123"}]}`, []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remessas, err := DecodeRemessas([]byte(tt.input))
			require.NoError(t, err)

			names := make([]string, len(remessas))
			for i, r := range remessas {
				names[i] = r.Filename
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := DecodeRemessas([]byte("  "))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = DecodeRemessas([]byte("{"))
	assert.Error(t, err)
}

func TestRemessaService_LoadFile(t *testing.T) {
	c := newTestContainer(t, testConfig())
	path := writeFile(t, "lote.json", `[{"titulos":[{"chaveNotaFiscal":"`+nfeKey+`","valorTitulo":"10.5"}]},{"filename":"outro.json"}]`)

	remessas, err := c.Remessas.LoadFile(path)

	require.NoError(t, err)
	require.Len(t, remessas, 2)
	assert.Equal(t, "lote.json", remessas[0].Filename)
	assert.Equal(t, "outro.json", remessas[1].Filename)
	assert.Equal(t, 10.5, remessas[0].Titulos[0].ValorTitulo.Float())

	_, err = c.Remessas.LoadFile(filepath.Join(t.TempDir(), "nao-existe.json"))
	assert.Error(t, err)
}

func TestRemessaService_List(t *testing.T) {
	c := newTestContainer(t, testConfig())
	remessas := []models.Remessa{
		{Filename: "b.json", CompanyPrefix: "ACME", Titulos: []models.Titulo{{ChaveNotaFiscal: nfeKey}}},
		{Filename: "c.json", CompanyPrefix: "BETA", Titulos: []models.Titulo{{ChaveNotaFiscal: cteKey}}},
		{Filename: "a.json", CompanyPrefix: "ACME", Titulos: []models.Titulo{{ChaveNotaFiscal: "NS-1"}}},
	}

	assessments, err := c.Remessas.List(context.Background(), remessas,
		models.Filters{Document: models.FilterAll, Company: "ACME", Status: models.FilterAll},
		models.SortByFilename, models.SortAsc)

	require.NoError(t, err)
	require.Len(t, assessments, 2)
	assert.Equal(t, "a.json", assessments[0].Filename)
	assert.Equal(t, models.CategoryServiceNote, assessments[0].Predominant)
	assert.Equal(t, "b.json", assessments[1].Filename)
	assert.Equal(t, models.CategoryNFe, assessments[1].Predominant)
}

func TestRemessaService_StrictConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Validation.StrictCheckDigit = true
	c := newTestContainer(t, cfg)

	assessments, err := c.Remessas.Evaluate(context.Background(), []models.Remessa{
		{Titulos: []models.Titulo{{ChaveNotaFiscal: nfeKey}}},
	})

	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusNaoIdentificados, assessments[0].DocumentStatus)
}

func TestRemessaService_Export(t *testing.T) {
	c := newTestContainer(t, testConfig())
	path := filepath.Join(t.TempDir(), "saida", "relatorio.xlsx")

	assessments, err := c.Remessas.Export(context.Background(), []models.Remessa{
		{Filename: "a.json", Titulos: []models.Titulo{{ChaveNotaFiscal: nfeKey}}},
	}, path)

	require.NoError(t, err)
	assert.Len(t, assessments, 1)
	assert.FileExists(t, path)
}

type failingEvaluator struct{ err error }

func (f failingEvaluator) ProcessBatch(context.Context, []models.Remessa) (worker.BatchResponse, error) {
	return worker.BatchResponse{}, f.err
}

func (failingEvaluator) GetStats() worker.WorkerPoolStats { return worker.WorkerPoolStats{} }

type recordingExporter struct{ calls int }

func (r *recordingExporter) ExportToFile([]models.Assessment, string) error {
	r.calls++
	return nil
}

func TestRemessaService_EvaluateError(t *testing.T) {
	boom := errors.New("falhou")
	exporter := &recordingExporter{}
	svc := NewRemessaService(nil, failingEvaluator{err: boom}, exporter, time.Second, logger.Discard())

	_, err := svc.Export(context.Background(), []models.Remessa{{}}, "x.xlsx")

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, exporter.calls)
}
