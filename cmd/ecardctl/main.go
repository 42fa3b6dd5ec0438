package main

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-tools/ecard-notify/pkg/config"
	"github.com/campus-tools/ecard-notify/pkg/ecard"
	"github.com/campus-tools/ecard-notify/pkg/mail"
	"github.com/campus-tools/ecard-notify/pkg/summary"
	"github.com/campus-tools/ecard-notify/pkg/system"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:          "ecardctl",
		Short:        "Campus card notifier CLI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run one summary task and exit",
		Long: "Runs the full summary pipeline once (login, balance, today's " +
			"transactions, notification mail) without the HTTP trigger layer. " +
			"Useful for cron deployments and manual checks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := setupLogger(debug)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Defaults()
			if err := cfg.Validate(); err != nil {
				return err
			}

			task := summary.NewTask(func() summary.PortalClient {
				return ecard.NewClient(cfg.Portal, log)
			}, mail.NewTemplateRenderer(), mail.NewSender(cfg.Mail, log), log)

			task.Run(cmd.Context())
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), system.Version)
		},
	}

	root.AddCommand(run, version)
	return root
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}
