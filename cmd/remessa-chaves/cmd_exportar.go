package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultReportName = "remessas.xlsx"

func newExportarCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "exportar <arquivo.json>...",
		Short: "Gera relatório XLSX das remessas",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			remessas, err := loadRemessas(a, args)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(a.cfg.Export.Dir, defaultReportName)
			}

			assessments, err := a.container.Remessas.Export(cmd.Context(), remessas, path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Relatório com %d remessa(s) salvo em %s\n", len(assessments), path)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "saida", "o", "", "arquivo XLSX de saída (padrão: EXPORT_DIR/"+defaultReportName+")")

	return cmd
}
