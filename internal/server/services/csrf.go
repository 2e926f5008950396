package services

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/common"
)

const csrfTokenBytes = 32

// CSRFTokens issues and checks anti-forgery tokens: 32 random bytes,
// URL-safe base64, valid for a fixed TTL. Tokens live in memory.
type CSRFTokens struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
	now    func() time.Time
}

func NewCSRFTokens(ttl time.Duration) *CSRFTokens {
	return &CSRFTokens{ttl: ttl, tokens: make(map[string]time.Time), now: time.Now}
}

// Issue returns a fresh token and drops expired ones.
func (c *CSRFTokens) Issue() (string, error) {
	token, err := common.MakeRandURLSafeString(csrfTokenBytes)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for t, exp := range c.tokens {
		if !now.Before(exp) {
			delete(c.tokens, t)
		}
	}
	c.tokens[token] = now.Add(c.ttl)

	return token, nil
}

// Valid reports whether token was issued and has not expired.
func (c *CSRFTokens) Valid(token string) bool {
	if token == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.tokens[token]
	return ok && c.now().Before(exp)
}
