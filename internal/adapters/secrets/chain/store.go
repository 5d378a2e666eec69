package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/taskflow-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/taskflow-cli/internal/adapters/secrets/pass"
	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
)

// Store tries its backends in order. Writes land in the first backend that
// accepts them; deletes are applied to every backend.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("secret store backend %d is nil", i)
		}
	}

	return &Store{backends: backends}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = errors.Join(errs, fmt.Errorf("backend %d put failed: %w", i, err))
	}

	return errs
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs error
	notFound := 0
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		if errors.Is(err, domain.ErrSecretNotFound) {
			notFound++
			continue
		}
		errs = errors.Join(errs, fmt.Errorf("backend %d get failed: %w", i, err))
	}

	if notFound == len(s.backends) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return "", errs
}

func (s *Store) Delete(ctx context.Context, key string) error {
	var errs error
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if err == nil || errors.Is(err, domain.ErrSecretNotFound) {
			continue
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = errors.Join(errs, fmt.Errorf("backend %d delete failed: %w", i, err))
	}

	return errs
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
