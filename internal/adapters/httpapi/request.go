package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bnema/taskflow-cli/internal/domain"
	"golang.org/x/oauth2"
)

// Descriptor is the transport-level shape of one endpoint call.
type Descriptor struct {
	Method string
	Path   string
	Body   any
}

// BuildRequest turns a descriptor and a session snapshot into an HTTP request.
// The bearer header is attached only when the session holds an access token.
func BuildRequest(ctx context.Context, baseURL string, desc Descriptor, session domain.Session) (*http.Request, error) {
	endpoint, err := buildAPIURL(baseURL, desc.Path)
	if err != nil {
		return nil, err
	}

	method := desc.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if desc.Body != nil {
		encoded, err := json.Marshal(desc.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, desc.Path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, desc.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if desc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if session.AccessToken != "" {
		token := &oauth2.Token{AccessToken: session.AccessToken, TokenType: "Bearer"}
		token.SetAuthHeader(req)
	}

	return req, nil
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return parsed.JoinPath(path).String(), nil
}
