package token

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyToken = errors.New("the GitHub Access token is empty")

// Set reads a token from stdin and stores it.
// Surrounding spaces and the trailing newline are removed.
func (c *Controller) Set() error {
	b, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("read a GitHub Access token from stdin: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return ErrEmptyToken
	}
	if err := c.tokenManager.SetToken(token); err != nil {
		return fmt.Errorf("store a GitHub Access token in the secret store: %w", err)
	}
	return nil
}
