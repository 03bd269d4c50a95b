package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/remessa"
)

// Sheet names of the report
const (
	SheetRemessas = "Remessas"
	SheetTitulos  = "Titulos"
)

var remessaHeaders = []string{
	"Arquivo", "Títulos", "Com chave", "Sem chave", "Chaves válidas", "Chaves inválidas",
	"Tipo predominante", "Status documentos", "Situação", "Valor total", "Valor total (R$)",
}

var tituloHeaders = []string{
	"Arquivo", "Índice", "Número documento", "Identificação", "Chave", "Tipo documento",
	"Chave válida", "Erros",
}

// ExportToFile writes the XLSX report of the assessments to outputPath,
// creating the parent directory when needed
func ExportToFile(assessments []models.Assessment, outputPath string) error {
	f, err := build(assessments)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("falha ao criar diretório de saída: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("falha ao salvar relatório: %w", err)
	}
	return nil
}

// Write writes the XLSX report of the assessments to w
func Write(w io.Writer, assessments []models.Assessment) error {
	f, err := build(assessments)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("falha ao escrever relatório: %w", err)
	}
	return nil
}

func build(assessments []models.Assessment) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRemessas); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetTitulos); err != nil {
		f.Close()
		return nil, err
	}

	sw := &sheetWriter{f: f}
	sw.header(SheetRemessas, remessaHeaders)
	sw.header(SheetTitulos, tituloHeaders)

	row := 2
	for i, a := range assessments {
		s := a.Summary
		sw.row(SheetRemessas, i+2,
			a.Filename, s.TotalItems, s.ItemsWithKey, s.ItemsWithoutKey, s.ValidKeys, s.InvalidKeys,
			string(a.Predominant), string(a.DocumentStatus), string(a.Situacao),
			a.ValorTotal, remessa.FormatBRL(a.ValorTotal),
		)

		for _, d := range s.Details {
			sw.row(SheetTitulos, row,
				a.Filename, d.Index+1, d.NumeroDocumento, d.Identificacao,
				nfe.FormatKey(d.RawKey), documentType(d), yesNo(d.KeyValid), keyErrors(d),
			)
			row++
		}
	}

	if sw.err != nil {
		f.Close()
		return nil, fmt.Errorf("falha ao montar planilha: %w", sw.err)
	}
	return f, nil
}

// sheetWriter keeps the first error of a sequence of cell writes
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) header(sheet string, headers []string) {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	w.row(sheet, 1, values...)

	if w.err != nil {
		return
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		w.err = err
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	w.err = w.f.SetCellStyle(sheet, "A1", last, style)
}

func (w *sheetWriter) row(sheet string, r int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func documentType(d models.ItemDetail) string {
	if d.Verdict == nil {
		return "Sem chave"
	}
	return d.Verdict.Classification.Descricao()
}

func keyErrors(d models.ItemDetail) string {
	if d.Verdict == nil {
		return ""
	}
	return strings.Join(d.Verdict.Errors, "; ")
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

// XLSXExporter writes reports with ExportToFile
type XLSXExporter struct{}

// ExportToFile implements the report exporter of the services container
func (XLSXExporter) ExportToFile(assessments []models.Assessment, path string) error {
	return ExportToFile(assessments, path)
}
