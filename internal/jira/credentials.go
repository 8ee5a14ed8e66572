package jira

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Credentials identify a Jira Cloud tenant and the account used to read it.
type Credentials struct {
	BaseURL  string `json:"baseUrl"`
	Email    string `json:"email"`
	APIToken string `json:"apiToken"`
}

// ErrInvalidCredentials is returned when a credentials tuple is incomplete.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Validate checks that every part of the tuple is present.
func (c Credentials) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base URL is required", ErrInvalidCredentials)
	case strings.TrimSpace(c.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidCredentials)
	case c.APIToken == "":
		return fmt.Errorf("%w: API token is required", ErrInvalidCredentials)
	}
	return nil
}

// CacheKey derives a stable key from the full tuple. The token never appears in clear text.
func (c Credentials) CacheKey() string {
	sum := sha256.Sum256([]byte(c.BaseURL + ":" + c.Email + ":" + c.APIToken))
	return "jira:" + hex.EncodeToString(sum[:])
}

// MarshalZerologObject logs the tenant and account, never the token.
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("url", c.BaseURL).Str("email", c.Email)
}
