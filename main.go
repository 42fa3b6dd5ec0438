package main

import (
	"flag"
	stdlog "log"

	"go.uber.org/zap"

	"github.com/campus-tools/ecard-notify/pkg/api"
	"github.com/campus-tools/ecard-notify/pkg/config"
	"github.com/campus-tools/ecard-notify/pkg/ecard"
	"github.com/campus-tools/ecard-notify/pkg/mail"
	"github.com/campus-tools/ecard-notify/pkg/summary"
	"github.com/campus-tools/ecard-notify/pkg/system"
)

func main() {
	debug := false
	configPath := ""
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	log := setupLogger(debug)
	log.With("version", system.Version).Info("Starting ecard-notify api")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Infow("Configuration loaded",
		"listenAddress", cfg.Server.ListenAddress,
		"portal", cfg.Portal.BaseURL,
		"mailHost", cfg.Mail.Host)

	task := summary.NewTask(func() summary.PortalClient {
		return ecard.NewClient(cfg.Portal, log)
	}, mail.NewTemplateRenderer(), mail.NewSender(cfg.Mail, log), log)

	server := api.NewServer(log.Desugar(), cfg, debug)
	if err := server.RegisterAll([]api.APIController{
		api.NewSummaryController(task, log),
	}); err != nil {
		log.Fatalf("Error registering controllers: %v", err)
	}

	if err := server.Listen(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
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
