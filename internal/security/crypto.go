// Package security implements the app-lock PIN scheme and field-level
// encryption of card notes.
//
// The PIN itself is never persisted. At setup time a random salt and a
// one-way verifier are stored; the AES key is derived from the PIN only at
// unlock time and held exclusively in memory until the next lock
// transition.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

// NotePrefix tags the versioned envelope produced by EncryptNote. A stored
// note without this prefix is legacy plaintext and is returned unchanged.
const NotePrefix = "enc:v1:"

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// kdfIterations is the PBKDF2-SHA256 work factor. Derivation takes a few
	// hundred milliseconds on purpose; callers must not run it on a hot path.
	kdfIterations = 200_000
)

// pinDigest computes the one-way verifier material for a PIN. The fixed
// prefix domain-separates the digest from any other SHA-256 use of the PIN.
func pinDigest(pin, saltB64 string) []byte {
	sum := sha256.Sum256([]byte("cardguard:pin:" + pin + ":" + saltB64))
	return sum[:]
}

// CreatePinVerifier generates a fresh 16-byte salt and the matching
// verifier for the given PIN. Both are returned base64-encoded, ready to
// persist in a LockConfig.
func CreatePinVerifier(pin string) (pinSaltB64, pinVerifierB64 string) {
	salt := common.GenerateRandByteArray(saltSize)
	saltB64 := base64.StdEncoding.EncodeToString(salt)
	verifier := pinDigest(pin, saltB64)
	return saltB64, base64.StdEncoding.EncodeToString(verifier)
}

// VerifyPin reports whether pin matches the PIN the config was created
// with. A config without salt or verifier never verifies.
func VerifyPin(pin string, cfg LockConfig) bool {
	if cfg.PinSaltB64 == "" || cfg.PinVerifierB64 == "" {
		return false
	}
	verifier := pinDigest(pin, cfg.PinSaltB64)
	return base64.StdEncoding.EncodeToString(verifier) == cfg.PinVerifierB64
}

// DeriveNotesKey stretches the PIN into a 256-bit AES key using
// PBKDF2-SHA256. The salt must be the one stored at setup time.
func DeriveNotesKey(pin, pinSaltB64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(pinSaltB64)
	if err != nil {
		return nil, fmt.Errorf("decoding pin salt: %w", err)
	}
	return pbkdf2.Key([]byte(pin), salt, kdfIterations, keySize, sha256.New), nil
}

// EncryptNote seals plaintext into a tagged envelope:
// NotePrefix + base64(nonce ‖ AES-256-GCM ciphertext).
// A fresh random nonce is generated on every call.
func EncryptNote(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}

	nonce := common.GenerateRandByteArray(nonceSize)
	ciphertext := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	return NotePrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// DecryptNote opens an envelope produced by EncryptNote. Input without the
// envelope tag is treated as legacy plaintext and returned as is. A wrong
// key, a truncated payload or a failed authentication tag all surface as
// common.ErrDecryptionFailed so the caller can degrade per record.
func DecryptNote(stored string, key []byte) (string, error) {
	if !strings.HasPrefix(stored, NotePrefix) {
		return stored, nil
	}

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, NotePrefix))
	if err != nil {
		return "", fmt.Errorf("%w: malformed envelope: %w", common.ErrDecryptionFailed, err)
	}
	if len(payload) < nonceSize {
		return "", fmt.Errorf("%w: envelope too short", common.ErrDecryptionFailed)
	}
	nonce, ciphertext := payload[:nonceSize], payload[nonceSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// IsEncryptedNote reports whether a stored note carries the envelope tag.
func IsEncryptedNote(stored string) bool {
	return strings.HasPrefix(stored, NotePrefix)
}
