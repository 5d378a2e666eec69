package ports

import (
	"context"

	"github.com/bnema/taskflow-cli/internal/domain"
)

// SessionRepository persists the signed-in user profile. Tokens live in the SecretStore.
type SessionRepository interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
