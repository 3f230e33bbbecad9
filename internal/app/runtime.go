// Package app wires the docfolio runtime together: storage, the reasoning
// clients, the assistant pipeline, the fax worker and the HTTP API.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docfolio/docfolio/internal/actions/executor"
	"github.com/docfolio/docfolio/internal/assistant"
	"github.com/docfolio/docfolio/internal/config"
	"github.com/docfolio/docfolio/internal/credentials"
	"github.com/docfolio/docfolio/internal/events"
	"github.com/docfolio/docfolio/internal/fax"
	"github.com/docfolio/docfolio/internal/httpapi"
	"github.com/docfolio/docfolio/internal/llm"
	"github.com/docfolio/docfolio/internal/llm/anthropic"
	"github.com/docfolio/docfolio/internal/llm/fallback"
	"github.com/docfolio/docfolio/internal/llm/openai"
	"github.com/docfolio/docfolio/internal/snapshot"
	"github.com/docfolio/docfolio/internal/store"
	"github.com/docfolio/docfolio/internal/transport/smtp"
)

type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *store.Store
	creds      *credentials.Source
	hub        *events.Hub
	assistant  *assistant.Service
	faxWorker  *fax.Worker
	httpServer *http.Server
}

func New(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.AutoMigrate(migrateCtx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	creds, err := buildCredentials(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	hub := events.NewHub(logger.With("component", "events"))
	remote := buildRemote(cfg, creds, logger)
	if remote == nil {
		logger.Warn("no reasoning provider configured, running on the local fallback only")
	}

	var mailer executor.Mailer
	if strings.TrimSpace(cfg.SMTPHost) != "" {
		mailer = smtp.New(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	workspace := executor.NewWorkspace(st, mailer, hub)
	runner := executor.New(workspace, workspace, logger.With("component", "executor"))

	service := assistant.New(assistant.Options{
		Store: st,
		Builder: snapshot.NewBuilder(st, snapshot.Limits{
			MaxDocuments:  cfg.SnapshotMaxDocuments,
			MaxActivities: cfg.SnapshotMaxActivities,
			MaxShares:     cfg.SnapshotMaxShares,
		}),
		Remote:   remote,
		Fallback: fallback.New(),
		Runner:   runner,
		Hub:      hub,
		ChatRoot: cfg.ChatLogRoot,
		Timeout:  time.Duration(cfg.LLMTimeoutSec) * time.Second,
		Logger:   logger.With("component", "assistant"),
	})

	faxWorker := fax.NewWorker(st, newFaxDialer(cfg.FaxEndpoint, logger.With("component", "fax")), cfg.FaxFlushSchedule, logger.With("component", "fax"))

	handler := httpapi.NewRouter(httpapi.Dependencies{
		Config:    cfg,
		Store:     st,
		Assistant: service,
		Hub:       hub,
		Logger:    logger.With("component", "httpapi"),
	})
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		creds:      creds,
		hub:        hub,
		assistant:  service,
		faxWorker:  faxWorker,
		httpServer: server,
	}, nil
}

// Assistant exposes the pipeline for local (non-HTTP) frontends.
func (r *Runtime) Assistant() *assistant.Service {
	return r.assistant
}

func (r *Runtime) Store() *store.Store {
	return r.store
}

func (r *Runtime) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

func buildCredentials(cfg config.Config) (*credentials.Source, error) {
	if strings.TrimSpace(cfg.LLMAPIKeyFile) != "" {
		return credentials.NewFromFile(cfg.LLMAPIKeyFile)
	}
	return credentials.NewStatic(cfg.LLMAPIKey), nil
}

func buildRemote(cfg config.Config, creds *credentials.Source, logger *slog.Logger) llm.Responder {
	if creds.Key() == "" && strings.TrimSpace(cfg.LLMAPIKeyFile) == "" {
		return nil
	}
	timeout := time.Duration(cfg.LLMTimeoutSec) * time.Second
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: timeout,
		}, creds, logger.With("component", "anthropic"))
	default:
		return openai.New(openai.Config{
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: timeout,
		}, creds, logger.With("component", "openai"))
	}
}
