package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/config"
	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
	"github.com/qaiserfcc/cloud-pos-cli/internal/logger"
	"github.com/qaiserfcc/cloud-pos-cli/internal/session"
)

// Globals carries flags shared by every command.
type Globals struct {
	Debug   bool
	Server  string
	Dir     string
	Version string
}

// app bundles the wired-up client stack for one command invocation.
type app struct {
	cfg     config.Config
	store   *session.Store
	client  *api.Client
	session *session.Manager
}

// newApp wires config, token store, API client, and session manager, and
// restores the session from persisted state.
func newApp(ctx context.Context, globals *Globals) (*app, error) {
	logger.Setup(globals.Debug)

	cfg, err := config.Load(globals.Dir)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.ServerURL = globals.Server
	}

	dir, err := config.BaseDir(globals.Dir)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	apiCfg := api.Config{
		BaseURL:     cfg.ServerURL,
		Credentials: store,
		Timeout:     cfg.Timeout,
		UserAgent:   "cloud-pos-cli/" + globals.Version,
	}
	if cfg.Cache {
		apiCfg.HTTPClient = api.NewCachingHTTPClient(filepath.Join(dir, "cache"), cfg.Timeout)
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(store, client)
	if err := manager.Initialize(ctx); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, store: store, client: client, session: manager}, nil
}

// requireAccess maps guard decisions onto actionable CLI errors.
func (a *app) requireAccess(req guard.Requirements) error {
	decision := guard.Evaluate(a.session.Snapshot(), req, "")
	switch decision.Action {
	case guard.Allow:
		return nil
	case guard.RedirectToLogin:
		return fmt.Errorf("not logged in\n\nRun 'cloud-pos login' first")
	case guard.RedirectToDashboard:
		switch decision.Reason {
		case "no tenant selected":
			return fmt.Errorf("no tenant selected\n\nRun 'cloud-pos context use-tenant <id>' first")
		case "no store selected":
			return fmt.Errorf("no store selected\n\nRun 'cloud-pos context use-store <id>' first")
		default:
			return fmt.Errorf("access denied: %s", decision.Reason)
		}
	default:
		return fmt.Errorf("session not ready: %s", decision.Reason)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
