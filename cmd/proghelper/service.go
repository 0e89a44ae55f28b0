package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/fbianco/proghelper/internal/core"
)

// program adapts the module lifecycle to the service manager interface.
// Start must not block, so the HTTP server's own goroutines carry the
// work after module startup.
type program struct {
	cfgPath  string
	app      *core.App
	shutdown func()
}

// Start implements service.Interface.
func (p *program) Start(service.Service) error {
	app, shutdown, err := buildApp(p.cfgPath)
	if err != nil {
		return err
	}
	if err := app.Start(); err != nil {
		shutdown()
		return err
	}
	p.app = app
	p.shutdown = shutdown
	return nil
}

// Stop implements service.Interface.
func (p *program) Stop(service.Service) error {
	if p.app != nil {
		p.app.Stop()
	}
	if p.shutdown != nil {
		p.shutdown()
	}
	return nil
}

// serviceCmd manages proghelper as a system service.
func serviceCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:       "service <install|uninstall|start|stop|run>",
		Short:     "Run or manage proghelper as a system service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"install", "uninstall", "start", "stop", "run"},
		RunE: func(_ *cobra.Command, args []string) error {
			action := args[0]

			arguments := []string{"service", "run"}
			if cfgPath != "" {
				arguments = append(arguments, "--config", cfgPath)
			}

			svc, err := service.New(&program{cfgPath: cfgPath}, &service.Config{
				Name:        "proghelper",
				DisplayName: "proghelper gateway",
				Description: "Multi-provider programming assistant gateway",
				Arguments:   arguments,
			})
			if err != nil {
				return fmt.Errorf("service setup: %w", err)
			}

			if action == "run" {
				return svc.Run()
			}
			if err := service.Control(svc, action); err != nil {
				return fmt.Errorf("service %s: %w", action, err)
			}
			fmt.Printf("service %s: done\n", action)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")
	return cmd
}
