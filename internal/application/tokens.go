package application

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
)

const tokenTypeBearer = "Bearer"

// storedTokens is the secret-store payload for a session's token pair.
type storedTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ObtainedAt   time.Time `json:"obtained_at"`
}

func encodeTokens(session domain.Session) (string, error) {
	payload, err := json.Marshal(storedTokens{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    tokenTypeBearer,
		ObtainedAt:   session.UpdatedAt.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode session tokens: %w", err)
	}
	return string(payload), nil
}

func decodeTokens(secretValue string) (storedTokens, error) {
	var tokens storedTokens
	if err := json.Unmarshal([]byte(secretValue), &tokens); err != nil {
		return storedTokens{}, fmt.Errorf("decode session tokens: %w", err)
	}
	if strings.TrimSpace(tokens.AccessToken) == "" {
		return storedTokens{}, fmt.Errorf("session tokens missing access_token")
	}
	return tokens, nil
}

func sessionSecretRef(userID domain.UserID) string {
	id := strings.TrimSpace(string(userID))
	if id == "" {
		id = "default"
	}
	return fmt.Sprintf("taskflow://session/%s/tokens", id)
}
