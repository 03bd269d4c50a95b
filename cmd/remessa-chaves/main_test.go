package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nfeKey = "35230112345678000195550010000000011123456785"
	badKey = "35230112345678000195990010000000011123456785"
)

// execute runs the CLI with args in an isolated environment
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Chdir(t.TempDir())
	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "CHAVE_DV_ESTRITO", "WORKERS_COUNT", "EXPORT_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeRemessas(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lote.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestChaveCmd_Valid(t *testing.T) {
	out, err := execute(t, "chave", nfeKey)

	require.NoError(t, err)
	assert.Contains(t, out, "3523 0112 3456 7800 0195 5500 1000 0000 0111 2345 6785")
	assert.Contains(t, out, "VÁLIDA - NFe")
	assert.Contains(t, out, "CNPJ 12.345.678/0001-95")
}

func TestChaveCmd_FormattedInput(t *testing.T) {
	out, err := execute(t, "chave", "3523 0112 3456 7800 0195 5500 1000 0000 0111 2345 6785")

	require.NoError(t, err)
	assert.Contains(t, out, "VÁLIDA - NFe")
}

func TestChaveCmd_InvalidJSON(t *testing.T) {
	out, err := execute(t, "chave", "--json", badKey, "ABC1234567")

	assert.ErrorIs(t, err, errInvalidKeys)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	first := results[0]["validacao"].(map[string]any)
	assert.Equal(t, false, first["valida"])
	assert.Equal(t, []any{"Modelo inválido: 99 (deve ser 55, 57, 65)"}, first["erros"])

	second := results[1]["validacao"].(map[string]any)
	assert.Equal(t, true, second["valida"])
	assert.Equal(t, "NOTA_SERVICO", second["tipoDocumento"].(map[string]any)["tipo"])
}

func TestChaveCmd_Strict(t *testing.T) {
	out, err := execute(t, "chave", "--estrito", nfeKey)

	assert.ErrorIs(t, err, errInvalidKeys)
	assert.Contains(t, out, "Dígito verificador inválido: 5 (esperado 7)")
}

func TestChaveCmd_RequiresArgs(t *testing.T) {
	_, err := execute(t, "chave")
	assert.Error(t, err)
}

func TestRemessasCmd(t *testing.T) {
	path := writeRemessas(t, `[
		{"filename":"REM_A.json","companyPrefix":"ACME","titulos":[
			{"numeroDocumento":"1","chaveNotaFiscal":"`+nfeKey+`","valorTitulo":"1000"},
			{"numeroDocumento":"2","valorTitulo":234.56}
		]},
		{"filename":"REM_B.json","companyPrefix":"BETA","titulos":[{"chaveNotaFiscal":"`+badKey+`"}]}
	]`)

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "remessas", "--detalhes", path)

		require.NoError(t, err)
		assert.Contains(t, out, "REM_A.json")
		assert.Contains(t, out, "R$ 1.234,56")
		assert.Contains(t, out, "identificado (NFe)")
		assert.Contains(t, out, "sem documento")
		assert.Contains(t, out, "não identificado: Modelo inválido: 99")
	})

	t.Run("filtered json", func(t *testing.T) {
		out, err := execute(t, "remessas", "--json", "--empresa", "BETA", path)

		require.NoError(t, err)

		var assessments []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &assessments))
		require.Len(t, assessments, 1)
		assert.Equal(t, "REM_B.json", assessments[0]["filename"])
		assert.Equal(t, "nao-identificados", assessments[0]["tipoDocumentoPredominante"])
		assert.Equal(t, "pendente", assessments[0]["situacaoStatus"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "remessas", filepath.Join(t.TempDir(), "nada.json"))
		assert.Error(t, err)
	})
}

func TestXMLCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfe.xml")
	xmlData := `<nfeProc><NFe><infNFe Id="NFe` + nfeKey + `"><ide><mod>55</mod></ide></infNFe></NFe></nfeProc>`
	require.NoError(t, os.WriteFile(path, []byte(xmlData), 0o600))

	out, err := execute(t, "xml", path)

	require.NoError(t, err)
	assert.Contains(t, out, "3523 0112 3456 7800 0195 5500 1000 0000 0111 2345 6785")
	assert.Contains(t, out, "válida")
}

func TestExportarCmd(t *testing.T) {
	path := writeRemessas(t, `{"filename":"REM_A.json","titulos":[{"chaveNotaFiscal":"`+nfeKey+`"}]}`)
	output := filepath.Join(t.TempDir(), "relatorio.xlsx")

	out, err := execute(t, "exportar", "--saida", output, path)

	require.NoError(t, err)
	assert.Contains(t, out, "Relatório com 1 remessa(s)")
	assert.FileExists(t, output)
}

func TestExportarCmd_DefaultDir(t *testing.T) {
	path := writeRemessas(t, `{"titulos":[]}`)
	dir := t.TempDir()

	_, err := execute(t, "exportar", "--env", writeEnv(t, "EXPORT_DIR="+dir+"\n"), path)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, defaultReportName))
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
