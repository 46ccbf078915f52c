package service

import (
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// Confirmer issues and checks the short-lived tokens of the two-step
// position delete. A token is a Fernet message carrying the position id.
type Confirmer struct {
	key *fernet.Key
	ttl time.Duration
}

// NewConfirmer creates a Confirmer from a base64 Fernet key. An empty key
// generates a random one, so tokens do not survive a restart.
func NewConfirmer(encodedKey string, ttl time.Duration) (*Confirmer, error) {
	var key *fernet.Key
	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate confirmation key: %w", err)
		}
	} else {
		var err error
		key, err = fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode confirmation key: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Confirmer{key: key, ttl: ttl}, nil
}

// TTL is how long an issued token stays valid.
func (c *Confirmer) TTL() time.Duration {
	return c.ttl
}

// Issue returns a token that confirms the deletion of id.
func (c *Confirmer) Issue(id string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(id), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign confirmation token: %w", err)
	}
	return string(tok), nil
}

// Verify checks that token was issued for id and has not expired.
func (c *Confirmer) Verify(id, token string) error {
	if token == "" {
		return apperrors.ErrConfirmationRequired
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), c.ttl, []*fernet.Key{c.key})
	if msg == nil || string(msg) != id {
		return apperrors.ErrInvalidConfirmation
	}
	return nil
}
