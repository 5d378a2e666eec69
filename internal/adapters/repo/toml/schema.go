package toml

import "fmt"

const currentSchemaVersion = 1

// fileSchema is the on-disk session profile. Tokens are never written here.
type fileSchema struct {
	Version   int        `toml:"version"`
	User      userSchema `toml:"user"`
	Auth      authSchema `toml:"auth"`
	UpdatedAt string     `toml:"updated_at,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s fileSchema) empty() bool {
	return s.User.ID == "" && s.Auth.SecretRef == ""
}

type userSchema struct {
	ID    string `toml:"id"`
	Email string `toml:"email"`
	Name  string `toml:"name"`
	Role  string `toml:"role,omitempty"`
}

type authSchema struct {
	SecretRef string `toml:"secret_ref"`
}
