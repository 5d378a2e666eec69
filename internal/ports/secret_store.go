package ports

import "context"

// SecretStore holds session token blobs under keys like
// taskflow://session/<user>/tokens. Get reports a missing key with
// domain.ErrSecretNotFound; Delete of a missing key is not an error.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
