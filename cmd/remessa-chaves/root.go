package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nexconsult/remessa-chaves/internal/config"
	"github.com/nexconsult/remessa-chaves/internal/logger"
	"github.com/nexconsult/remessa-chaves/internal/services"
)

// app holds the state shared by the subcommands of one execution
type app struct {
	envFile  string
	logLevel string

	cfg       *config.Config
	log       *logrus.Logger
	container *services.Container
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "remessa-chaves",
		Short: "Valida chaves de documentos fiscais (NFe, CTe, NFCe) e remessas",
		Long: `Classifica e valida chaves de acesso de documentos fiscais eletrônicos,
resume a identificação de documentos de remessas bancárias e gera relatórios.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.envFile, "env", "", "arquivo .env a carregar")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "nível de log (sobrescreve LOG_LEVEL)")

	root.AddCommand(
		newChaveCmd(a),
		newRemessasCmd(a),
		newXMLCmd(a),
		newExportarCmd(a),
	)

	return root
}

// setup loads configuration and builds the service container
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	a.log = logger.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	container, err := services.NewContainer(cfg, a.log)
	if err != nil {
		return fmt.Errorf("falha ao inicializar serviços: %w", err)
	}
	a.container = container

	a.log.WithField("command", cmd.Name()).Debug("Command starting")
	return nil
}

// run wraps a command so the container is closed even when it fails
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) close() {
	if a.container == nil {
		return
	}
	if err := a.container.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close services")
	}
	a.container = nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
