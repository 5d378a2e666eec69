package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/taskflow-cli/internal/adapters/httpapi"
	boardrender "github.com/bnema/taskflow-cli/internal/adapters/render/board"
	tomlrepo "github.com/bnema/taskflow-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/taskflow-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/taskflow-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/taskflow-cli/internal/adapters/secrets/pass"
	"github.com/bnema/taskflow-cli/internal/application"
	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
	"github.com/bnema/taskflow-cli/internal/querycache"
	"github.com/bnema/taskflow-cli/internal/telemetry"
	"github.com/bnema/taskflow-cli/internal/version"
	"github.com/spf13/viper"
)

const (
	keyAPIBaseURL        = "api.base_url"
	keyAPITimeout        = "api.timeout"
	keySecretsDir        = "secrets.dir"
	keySecretsBackend    = "secrets.backend"
	keyLogLevel          = "log.level"
	keyLogFile           = "log.file"
	keyTelemetryEnabled  = "telemetry.enabled"
	keyTelemetryExporter = "telemetry.exporter"
	keyTelemetryEndpoint = "telemetry.endpoint"
)

type app struct {
	auth        *application.AuthService
	tasks       *application.TaskService
	renderBoard func([]domain.Column, boardrender.RenderOptions) (string, error)
	renderTask  func(domain.Task, boardrender.RenderOptions) (string, error)
	logger      *slog.Logger
	now         func() time.Time
	closers     []func(context.Context) error
}

func newConfig() (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix("TASKFLOW")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.BindEnv(keyAPIBaseURL, "TASKFLOW_API_BASE_URL", "TASKFLOW_API_URL"); err != nil {
		return nil, fmt.Errorf("bind api url env: %w", err)
	}

	cfg.SetDefault(keyAPIBaseURL, httpapi.DefaultBaseURL)
	cfg.SetDefault(keyAPITimeout, 30*time.Second)
	cfg.SetDefault(keySecretsBackend, "auto")
	cfg.SetDefault(keyLogLevel, "info")
	cfg.SetDefault(keyTelemetryEnabled, false)
	cfg.SetDefault(keyTelemetryExporter, "stdout")

	if err := tomlrepo.LoadConfig(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func wireApp(ctx context.Context) (*app, error) {
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}

	logPath, err := resolveLogPath(cfg)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := telemetry.NewLogger(logPath, cfg.GetString(keyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	provider, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.GetBool(keyTelemetryEnabled),
		Exporter:    cfg.GetString(keyTelemetryExporter),
		Endpoint:    cfg.GetString(keyTelemetryEndpoint),
		ServiceName: "tf",
		Version:     version.Version,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	metrics, err := telemetry.NewMetrics(provider.Meter)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	secretStore, err := wireSecretStore(cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	repo, err := tomlrepo.NewSessionRepository(cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	registry, err := httpapi.NewDefaultRegistry()
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("wire endpoint registry: %w", err)
	}

	clock := ports.SystemClock{}
	state := application.NewSessionState(domain.Session{})
	cache := querycache.New(querycache.Options{
		Logger:  logger,
		Metrics: metrics,
		Now:     clock.Now,
	})

	client := &httpapi.Client{
		BaseURL:        cfg.GetString(keyAPIBaseURL),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.GetDuration(keyAPITimeout),
		Registry:       registry,
		Session:        state,
		Logger:         logger,
		Tracer:         provider.Tracer,
		Metrics:        metrics,
	}

	return &app{
		auth:        application.NewAuthService(httpapi.NewAuthAPI(client), repo, secretStore, state, cache, clock, logger),
		tasks:       application.NewTaskService(httpapi.NewTaskAPI(client), cache, registry, logger, provider.Tracer),
		renderBoard: boardrender.Render,
		renderTask:  boardrender.RenderTask,
		logger:      logger,
		now:         clock.Now,
		closers: []func(context.Context) error{
			provider.Shutdown,
			func(context.Context) error { return logCloser.Close() },
		},
	}, nil
}

func (a *app) Close(ctx context.Context) error {
	var errs error
	for _, closeFn := range a.closers {
		errs = errors.Join(errs, closeFn(ctx))
	}
	return errs
}

func wireSecretStore(cfg *viper.Viper) (ports.SecretStore, error) {
	dir := cfg.GetString(keySecretsDir)
	if dir == "" {
		configDir, err := tomlrepo.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(configDir, "secrets")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.GetString(keySecretsBackend)))
	switch backend {
	case "auto", "":
		store, err := chainstore.NewPassFirstWithFileFallback(dir)
		if err != nil {
			return nil, fmt.Errorf("wire secret store chain: %w", err)
		}
		return store, nil
	case "file":
		return filestore.NewStore(dir), nil
	case "pass":
		return passstore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q (supported: auto, file, pass)", backend)
	}
}

func resolveLogPath(cfg *viper.Viper) (string, error) {
	if cfg.IsSet(keyLogFile) {
		return cfg.GetString(keyLogFile), nil
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}

	return filepath.Join(stateHome, "taskflow", "tf.jsonl"), nil
}
