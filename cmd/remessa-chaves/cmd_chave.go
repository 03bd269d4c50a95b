package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

var errInvalidKeys = errors.New("há chaves inválidas")

type chaveResult struct {
	Chave     string         `json:"chave"`
	Formatada string         `json:"formatada"`
	Validacao models.Verdict `json:"validacao"`
}

func newChaveCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "chave <chave>...",
		Short: "Classifica e valida chaves de documentos fiscais",
		Example: `  remessa-chaves chave 35230112345678000195550010000000011123456785
  remessa-chaves chave --estrito --json "3523 0112 3456 7800 0195 5500 1000 0000 0111 2345 6785"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			validator := a.container.Validator
			if strict {
				validator = nfe.NewValidator(nfe.WithStrictCheckDigit(true))
			}

			results := make([]chaveResult, len(args))
			invalid := false
			for i, arg := range args {
				key := nfe.UnformatKey(arg)
				verdict := validator.Validate(key)
				results[i] = chaveResult{Chave: key, Formatada: nfe.FormatKey(key), Validacao: verdict}
				if !verdict.Valid {
					invalid = true
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					printVerdict(out, r)
				}
			}

			if invalid {
				return errInvalidKeys
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "saída em JSON")
	cmd.Flags().BoolVar(&strict, "estrito", false, "verifica o dígito verificador por módulo 11")

	return cmd
}

func printVerdict(w io.Writer, r chaveResult) {
	status := "VÁLIDA"
	if !r.Validacao.Valid {
		status = "INVÁLIDA"
	}

	label := r.Formatada
	if label == "" {
		label = "(vazia)"
	}
	fmt.Fprintf(w, "%s\n  %s - %s\n", label, status, r.Validacao.Classification.Descricao())

	if c := r.Validacao.Components; c != nil {
		fmt.Fprintf(w, "  UF %s  AAMM %s  CNPJ %s  modelo %s  série %s  número %s  tpEmis %s  cNF %s  DV %s\n",
			c.CUF, c.AAMM, utils.FormatCNPJ(c.CNPJ), c.Modelo, c.Serie, c.Numero, c.TpEmis, c.CNF, c.DV)
	}
	if len(r.Validacao.Errors) > 0 {
		fmt.Fprintf(w, "  erros:\n    - %s\n", strings.Join(r.Validacao.Errors, "\n    - "))
	}
}
