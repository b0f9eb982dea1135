package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/miosbridge/internal/bridge"
	"codeberg.org/mutker/miosbridge/internal/config"
	apperrors "codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/export"
	"codeberg.org/mutker/miosbridge/internal/hub"
	"codeberg.org/mutker/miosbridge/internal/journal"
	"codeberg.org/mutker/miosbridge/internal/logger"
	"codeberg.org/mutker/miosbridge/internal/metric"
	"codeberg.org/mutker/miosbridge/internal/pid"
	"codeberg.org/mutker/miosbridge/internal/topology"
	"codeberg.org/mutker/miosbridge/internal/transport"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	client := hub.NewClient(cfg.HubURL)

	if cfg.ExportHosts || cfg.ExportTemplates || cfg.ExportSummary {
		if err := runExport(client); err != nil {
			logger.Error().Err(err).Msg("Export failed")
			os.Exit(1)
		}
		return
	}

	if err := run(client); err != nil {
		var appErr apperrors.Error
		if apperrors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Bridge terminated with error")
		} else {
			logger.Error().Err(err).Msg("Bridge terminated with error")
		}
		os.Exit(1)
	}
}

// runExport renders the requested documents from a fresh enumeration,
// independent of the live change stream, and writes them to stdout.
func runExport(client *hub.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entities, err := client.Enumerate(ctx)
	if err != nil {
		return err
	}

	snap := topology.Build(entities, metric.DefaultRegistry())
	params := export.Params{
		HostGroup:     cfg.HostGroup,
		TemplateGroup: cfg.TemplateGroup,
		HostPrefix:    cfg.HostPrefix,
		AgentHost:     cfg.AgentHost,
	}

	if cfg.ExportHosts {
		doc, err := export.RenderHosts(snap, params)
		if err != nil {
			return err
		}
		os.Stdout.Write(doc)
	}

	if cfg.ExportTemplates || cfg.ExportSummary {
		mode := export.ModeDetailed
		if cfg.ExportSummary {
			mode = export.ModeSummary
		}
		doc, err := export.RenderTemplates(snap, params, mode)
		if err != nil {
			return err
		}
		os.Stdout.Write(doc)
	}

	return nil
}

func run(client *hub.Client) error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	jrnl, err := journal.NewService(journal.Config{
		Enabled:      cfg.Journal,
		DBPath:       cfg.JournalDB,
		BatchSize:    cfg.JournalBatchSize,
		BatchTimeout: cfg.JournalBatchTimeout,
	})
	if err != nil {
		return err
	}

	channel, err := transport.NewSender(transport.SenderConfig{
		Command: cfg.Sender,
		Server:  cfg.Server,
	})
	if err != nil {
		if closeErr := jrnl.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("Failed to close journal")
		}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	poller := hub.NewPoller(client, time.Duration(cfg.Interval)*time.Second)
	service := bridge.New(cfg.HostPrefix, client, poller, channel, jrnl)

	entities, err := service.Start(ctx)
	if err == nil {
		poller.Prime(entities)
		err = poller.Run(ctx)
	}

	cleanup(channel, jrnl)

	return err
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(channel transport.Channel, jrnl journal.Collector) {
	if err := channel.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close collector sender channel")
	}
	if err := jrnl.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close journal")
	}
	logger.Info().Msg("Exiting...")
}
