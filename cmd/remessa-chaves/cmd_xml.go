package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nexconsult/remessa-chaves/internal/nfe"
)

func newXMLCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "xml <arquivo.xml>...",
		Short: "Extrai e valida a chave de acesso de XMLs de NFe, NFCe e CTe",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			results, err := a.container.XMLService.ExtractKeys(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, results)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ARQUIVO\tCHAVE\tTIPO\tSTATUS")
			for _, r := range results {
				switch {
				case r.Error != "":
					fmt.Fprintf(tw, "%s\t-\t-\terro: %s\n", r.File, r.Error)
				case r.Verdict.Valid:
					fmt.Fprintf(tw, "%s\t%s\t%s\tválida\n", r.File, nfe.FormatKey(r.Document.Chave), r.Verdict.Classification.Descricao())
				default:
					fmt.Fprintf(tw, "%s\t%s\t%s\tinválida: %s\n", r.File, nfe.FormatKey(r.Document.Chave),
						r.Verdict.Classification.Descricao(), r.Verdict.Errors[0])
				}
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "saída em JSON")

	return cmd
}
