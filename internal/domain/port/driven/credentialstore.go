package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// ErrEncryptionKeyNotSet means MYDASHBOARD_SECRET_KEY is missing, so secrets
// cannot be stored or read back.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set MYDASHBOARD_SECRET_KEY")

// CredentialStore keeps per-service secrets, such as the GitHub token,
// encrypted at rest. Values cross this port as plaintext.
type CredentialStore interface {
	// Set stores or replaces the secret for service.
	Set(ctx context.Context, service, plaintext string) error

	// Get returns the secret for service, or "" when none is stored.
	Get(ctx context.Context, service string) (string, error)

	// Stat reports whether a secret is stored for service without decrypting it.
	Stat(ctx context.Context, service string) (model.Credential, bool, error)

	// Delete removes the secret for service. Missing secrets are not an error.
	Delete(ctx context.Context, service string) error
}
