package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/medseg/scanflow/internal/annotation"
	"github.com/medseg/scanflow/internal/auth"
	"github.com/medseg/scanflow/internal/cli"
	"github.com/medseg/scanflow/internal/config"
	"github.com/medseg/scanflow/internal/journal"
	"github.com/medseg/scanflow/internal/pipeline"
	"github.com/medseg/scanflow/internal/service"
	"github.com/medseg/scanflow/internal/workflow"
)

// app bundles everything a command needs against one backend.
type app struct {
	cfg         *config.Config
	pipeline    *pipeline.Client
	annotation  *annotation.Client
	session     *auth.Session
	coordinator *workflow.Coordinator
	journal     *journal.SQLiteJournal
}

// initApp wires the clients, session, journal and coordinator from
// config. The returned cleanup closes the journal.
func initApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	pipelineClient, err := pipeline.NewClient(cfg.BackendURL)
	if err != nil {
		return nil, nil, err
	}
	annotationClient, err := annotation.NewClient(cfg.BackendURL)
	if err != nil {
		return nil, nil, err
	}

	// The journal is an audit trail; if it cannot open we log and
	// carry on without history rather than blocking pipeline work.
	var actionJournal *journal.SQLiteJournal
	j, err := journal.NewSQLiteJournal(cfg.JournalPath)
	if err != nil {
		slog.Warn("Action journal unavailable", "path", cfg.JournalPath, "error", err)
	} else if err := j.Migrate(ctx); err != nil {
		slog.Warn("Action journal migration failed", "error", err)
		_ = j.Close()
	} else {
		actionJournal = j
	}

	var coordinatorJournal service.Journal
	if actionJournal != nil {
		coordinatorJournal = actionJournal
	}

	a := &app{
		cfg:         cfg,
		pipeline:    pipelineClient,
		annotation:  annotationClient,
		session:     auth.NewSession(pipelineClient),
		coordinator: workflow.NewCoordinator(pipelineClient, annotationClient, coordinatorJournal),
		journal:     actionJournal,
	}
	cleanup := func() {
		if actionJournal != nil {
			_ = actionJournal.Close()
		}
	}
	return a, cleanup, nil
}

// promptCredentials collects the annotation-service login for one
// action. Credentials are never cached or written anywhere.
func promptCredentials(ctx context.Context) (service.Credentials, error) {
	return annotation.NewCredentialPrompter(os.Stdin, os.Stdout).Prompt(ctx)
}

// confirm asks a yes/no question on stdin.
func confirm(question string) (bool, error) {
	fmt.Print(cli.FormatPrompt(question + " [y/N]"))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
