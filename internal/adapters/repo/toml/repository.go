package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName      = "config"
	configType      = "toml"
	configDirName   = "taskflow"
	SessionPathKey  = "session.path"
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	sessionFileName = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

type SessionRepository struct {
	sessionPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionRepository = (*SessionRepository)(nil)

// ConfigDir is $XDG_CONFIG_HOME/taskflow, falling back to ~/.config/taskflow.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, configDirName), nil
}

// LoadConfig points cfg at config.toml in ConfigDir and reads it if present.
func LoadConfig(cfg *viper.Viper) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	return nil
}

func NewSessionRepository(cfg *viper.Viper) (*SessionRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	cfg.SetDefault(SessionPathKey, filepath.Join(dir, sessionFileName))

	sessionPath := cfg.GetString(SessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath, err = normalizeSessionPath(sessionPath)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (r *SessionRepository) Path() string {
	return r.sessionPath
}

func (r *SessionRepository) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, found, err := r.readSchema()
	if err != nil {
		return domain.Session{}, err
	}
	if !found || file.empty() {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return fromSchema(file), nil
}

func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeSchema(toSchema(session)); err != nil {
		return err
	}

	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

func (r *SessionRepository) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(r.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func normalizeSessionPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *SessionRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.sessionPath), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.sessionPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, r.sessionPath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.sessionPath, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}

	return nil
}

func toSchema(session domain.Session) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		User: userSchema{
			ID:    string(session.User.ID),
			Email: session.User.Email,
			Name:  session.User.Name,
			Role:  string(session.User.Role),
		},
		Auth:      authSchema{SecretRef: session.SecretRef},
		UpdatedAt: formatTime(session.UpdatedAt),
	}
}

func fromSchema(file fileSchema) domain.Session {
	return domain.Session{
		User: domain.User{
			ID:    domain.UserID(file.User.ID),
			Email: file.User.Email,
			Name:  file.User.Name,
			Role:  domain.Role(file.User.Role),
		},
		SecretRef: file.Auth.SecretRef,
		UpdatedAt: parseTime(file.UpdatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
