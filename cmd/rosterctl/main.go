package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/repository"
	"github.com/Monalisa-XD/Academix/internal/service"
	"github.com/Monalisa-XD/Academix/pkg/config"
	"github.com/Monalisa-XD/Academix/pkg/logger"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
}

func (a *app) workspace() *service.Workspace {
	client := repository.NewRemoteClient(a.cfg.Remote.BaseURL, a.cfg.Remote.Timeout, nil)
	return service.NewWorkspace(service.NewRemoteRosterStores(client), a.logger)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage the Academix faculty and student rosters from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logr, err := logger.New(cfg)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logr
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.AddCommand(newListCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newAdminCmd(a))
	return root
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
