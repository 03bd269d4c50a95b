package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/remessa"
)

func newRemessasCmd(a *app) *cobra.Command {
	var (
		filters models.Filters
		sortBy  string
		order   string
		asJSON  bool
		details bool
	)

	cmd := &cobra.Command{
		Use:   "remessas <arquivo.json>...",
		Short: "Resume a identificação de documentos das remessas",
		Example: `  remessa-chaves remessas lote.json
  remessa-chaves remessas --documento nao-identificados --situacao pendente --ordenar valorTotal --ordem desc lote.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			remessas, err := loadRemessas(a, args)
			if err != nil {
				return err
			}

			assessments, err := a.container.Remessas.List(cmd.Context(), remessas, filters,
				models.SortColumn(sortBy), models.SortOrder(order))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, assessments)
			}
			return printAssessments(out, assessments, details)
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&filters.Search, "busca", "", "texto no sacador/avalista ou no nome do arquivo")
	flags.StringVar(&filters.Document, "documento", models.FilterAll, "nfe, cte, ns, misto, nao-identificados, sem-documentos")
	flags.StringVar(&filters.Company, "empresa", models.FilterAll, "prefixo da empresa")
	flags.StringVar(&filters.Status, "situacao", models.FilterAll, "aprovada, reprovada, pendente")
	flags.StringVar(&sortBy, "ordenar", "", "timestamp, titulos, valorTotal, filename, sacadorAvalista, situacao")
	flags.StringVar(&order, "ordem", string(models.SortAsc), "asc ou desc")
	flags.BoolVar(&asJSON, "json", false, "saída em JSON")
	flags.BoolVar(&details, "detalhes", false, "lista os títulos de cada remessa")

	return cmd
}

func loadRemessas(a *app, paths []string) ([]models.Remessa, error) {
	var all []models.Remessa
	for _, path := range paths {
		remessas, err := a.container.Remessas.LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, remessas...)
	}
	return all, nil
}

func printAssessments(w io.Writer, assessments []models.Assessment, details bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ARQUIVO\tTÍTULOS\tCOM CHAVE\tVÁLIDAS\tINVÁLIDAS\tTIPO\tDOCUMENTOS\tSITUAÇÃO\tVALOR")
	for _, a := range assessments {
		s := a.Summary
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			a.Filename, s.TotalItems, s.ItemsWithKey, s.ValidKeys, s.InvalidKeys,
			a.Predominant, a.DocumentStatus, a.Situacao, remessa.FormatBRL(a.ValorTotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !details {
		return nil
	}

	for _, a := range assessments {
		fmt.Fprintf(w, "\n%s\n", a.Filename)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, d := range a.Summary.Details {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", d.Index+1, d.NumeroDocumento, nfe.FormatKey(d.RawKey), detailStatus(d))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func detailStatus(d models.ItemDetail) string {
	switch {
	case !d.HasKey:
		return "sem documento"
	case d.KeyValid:
		return "identificado (" + d.Verdict.Classification.Descricao() + ")"
	default:
		return "não identificado: " + d.Verdict.Errors[0]
	}
}
