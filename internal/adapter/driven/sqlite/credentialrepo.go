package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

var _ driven.CredentialStore = (*CredentialRepo)(nil)

// sealedPrefix tags the on-disk format: base64url(nonce || ciphertext || tag),
// sealed with the service name as additional data so a value copied to
// another row fails to open.
const sealedPrefix = "v1."

var errMalformedSecret = errors.New("malformed sealed secret")

// CredentialRepo stores secrets in the credentials table, sealed with
// AES-256-GCM.
type CredentialRepo struct {
	db     *DB
	aead   cipher.AEAD
	keyErr error
}

// NewCredentialRepo creates a CredentialRepo. A nil key disables the store;
// every call then fails with driven.ErrEncryptionKeyNotSet.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	repo := &CredentialRepo{db: db}
	if key == nil {
		repo.keyErr = driven.ErrEncryptionKeyNotSet
		return repo
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		repo.keyErr = fmt.Errorf("credential key: %w", err)
		return repo
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		repo.keyErr = fmt.Errorf("credential key: %w", err)
		return repo
	}
	repo.aead = aead
	return repo
}

// Set seals plaintext and upserts it under service.
func (r *CredentialRepo) Set(ctx context.Context, service, plaintext string) error {
	sealed, err := r.seal(service, plaintext)
	if err != nil {
		return err
	}

	rec := credentialRecord{Service: service, Value: sealed}
	err = r.db.write.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "service"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store %s credential: %w", service, err)
	}
	return nil
}

// Get returns the plaintext for service, or "" if nothing is stored.
func (r *CredentialRepo) Get(ctx context.Context, service string) (string, error) {
	if r.keyErr != nil {
		return "", r.keyErr
	}

	var rec credentialRecord
	err := r.db.read.WithContext(ctx).Where("service = ?", service).Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("load %s credential: %w", service, err)
	}

	plaintext, err := r.open(service, rec.Value)
	if err != nil {
		return "", fmt.Errorf("open %s credential: %w", service, err)
	}
	return plaintext, nil
}

// Stat reports when the secret for service was last written. The sealed
// value is not read, so Stat works without a key.
func (r *CredentialRepo) Stat(ctx context.Context, service string) (model.Credential, bool, error) {
	var rec credentialRecord
	err := r.db.read.WithContext(ctx).
		Select("service", "updated_at").
		Where("service = ?", service).
		Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Credential{}, false, nil
	case err != nil:
		return model.Credential{}, false, fmt.Errorf("stat %s credential: %w", service, err)
	}
	return model.Credential{Service: rec.Service, UpdatedAt: rec.UpdatedAt.UTC()}, true, nil
}

// Delete removes the secret for service.
func (r *CredentialRepo) Delete(ctx context.Context, service string) error {
	err := r.db.write.WithContext(ctx).Where("service = ?", service).Delete(&credentialRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete %s credential: %w", service, err)
	}
	return nil
}

func (r *CredentialRepo) seal(service, plaintext string) (string, error) {
	if r.keyErr != nil {
		return "", r.keyErr
	}

	nonce := make([]byte, r.aead.NonceSize(), r.aead.NonceSize()+len(plaintext)+r.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := r.aead.Seal(nonce, nonce, []byte(plaintext), []byte(service))
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (r *CredentialRepo) open(service, stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return "", errMalformedSecret
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedSecret, err)
	}

	n := r.aead.NonceSize()
	if len(data) < n+r.aead.Overhead() {
		return "", errMalformedSecret
	}
	plaintext, err := r.aead.Open(nil, data[:n], data[n:], []byte(service))
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}
