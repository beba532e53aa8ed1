package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/antonpav/pad/internal/analysis"
	"github.com/antonpav/pad/internal/config"
	"github.com/antonpav/pad/internal/logging"
	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/remote"
	"github.com/antonpav/pad/internal/services"
	"github.com/antonpav/pad/internal/session"
	"github.com/antonpav/pad/internal/store"
	"github.com/antonpav/pad/internal/syncmgr"
	"github.com/antonpav/pad/internal/syncqueue"
)

// App wires the configuration, local store, sync machinery and entity
// services behind the REPL command handlers. Signing in or out rebuilds
// the workspace against the session's storage namespace.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	db     *sql.DB
	client *remote.Client
	sess   session.Session
	reader *bufio.Reader
	out    io.Writer

	deps     services.Deps
	store    *store.Store
	queue    *syncqueue.Queue
	manager  *syncmgr.Manager
	diaries  *services.Diaries
	folders  *services.Folders
	tasks    *services.Tasks
	analyses *services.Analyses

	watchCancel context.CancelFunc
}

// NewApp opens the local database and builds the unauthenticated
// workspace. A missing remote base URL disables sync; everything else
// keeps working locally.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.OpenDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		cfg:    cfg,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	if cfg.RemoteBaseURL != "" {
		a.client = remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteAPIKey, log)
	}
	a.buildWorkspace(ctx)
	return a, nil
}

// buildWorkspace (re)constructs the store, queue, manager and services
// for the current session's namespace.
func (a *App) buildWorkspace(ctx context.Context) {
	a.store = store.New(a.db, a.sess.Namespace(), a.log)
	a.queue = syncqueue.New(a.store)
	a.queue.MaxRetries = a.cfg.MaxRetries

	var applier syncmgr.Applier
	if a.client != nil {
		applier = remote.NewAdapter(a.client)
	}
	a.manager = syncmgr.New(a.queue, applier, a.store, a.log, syncmgr.Options{
		OpTimeout:  a.cfg.SyncOpTimeout,
		DropPolicy: dropPolicy(a.cfg.DropPolicy),
		Online:     a.online,
	})
	a.manager.OnDeadLetter(func(ops []models.SyncOperation) {
		a.Notify(context.Background(),
			fmt.Sprintf("%d change(s) exhausted their retries and were dropped; see 'history'", len(ops)))
	})

	a.deps = services.Deps{
		Store:  a.store,
		Queue:  a.queue,
		Sess:   a.sess,
		Log:    a.log,
		Notify: a,
		Kick:   a.kick,
	}
	a.diaries = services.NewDiaries(ctx, a.deps)
	a.folders = services.NewFolders(ctx, a.deps, a.diaries)
	a.tasks = services.NewTasks(ctx, a.deps)
	a.analyses = services.NewAnalyses(a.deps, a.analysisProvider())
}

func (a *App) analysisProvider() analysis.Provider {
	if a.cfg.AnthropicAPIKey != "" {
		return analysis.NewChain(a.log, analysis.NewAnthropic(a.cfg.AnthropicAPIKey, a.cfg.AnalysisModel))
	}
	return analysis.NewChain(a.log)
}

func dropPolicy(name string) syncmgr.DropPolicy {
	if name == config.DropPolicySilent {
		return syncmgr.DropSilent
	}
	return syncmgr.DropNotify
}

// Notify implements services.Notifier by printing to the terminal.
func (a *App) Notify(_ context.Context, msg string) {
	fmt.Fprintln(a.out, "! "+msg)
}

// kick schedules a background drain after a mutation.
func (a *App) kick() {
	go func() {
		if _, err := a.manager.ProcessQueue(context.Background()); err != nil {
			a.log.Warn(context.Background(), "background sync pass failed", "error", err)
		}
	}()
}

// online probes the remote service with a short timeout. Unauthenticated
// or unconfigured clients are always offline: there is nothing to sync.
func (a *App) online() bool {
	if a.client == nil || !a.sess.Active() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HealthProbeTimeout)
	defer cancel()
	return a.client.Health(ctx) == nil
}

func (a *App) isLoggedIn() bool {
	return a.sess.Active()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "(local)"
	}
	return fmt.Sprintf("(%s, %d pending)", a.sess.Email, a.manager.PendingCount(context.Background()))
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Pad (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close stops the online watcher and releases the database.
func (a *App) Close() error {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	return a.db.Close()
}
