package security

import (
	"testing"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestEncryptDecryptNote_RoundTrip(t *testing.T) {
	key := testKey(0x42)

	tests := []string{
		"",
		"short",
		"multi\nline\nnote with unicode: 日本語 и кириллица",
	}

	for _, plaintext := range tests {
		envelope, err := EncryptNote(plaintext, key)
		require.NoError(t, err)
		assert.True(t, IsEncryptedNote(envelope))

		got, err := DecryptNote(envelope, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptNote_FreshNoncePerCall(t *testing.T) {
	key := testKey(0x42)

	e1, err := EncryptNote("same plaintext", key)
	require.NoError(t, err)
	e2, err := EncryptNote("same plaintext", key)
	require.NoError(t, err)

	// Nonce reuse under one key would break GCM; two encryptions of the
	// same plaintext must never produce the same envelope.
	assert.NotEqual(t, e1, e2)
}

func TestDecryptNote_WrongKey(t *testing.T) {
	envelope, err := EncryptNote("secret", testKey(0x01))
	require.NoError(t, err)

	_, err = DecryptNote(envelope, testKey(0x02))
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDecryptNote_CorruptedEnvelope(t *testing.T) {
	key := testKey(0x42)

	_, err := DecryptNote(NotePrefix+"!!!not-base64!!!", key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)

	_, err = DecryptNote(NotePrefix+"AAAA", key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDecryptNote_LegacyPlaintextPassthrough(t *testing.T) {
	got, err := DecryptNote("an old unencrypted note", testKey(0x42))
	require.NoError(t, err)
	assert.Equal(t, "an old unencrypted note", got)
}

func TestCreatePinVerifier_Verify(t *testing.T) {
	saltB64, verifierB64 := CreatePinVerifier("1234")
	cfg := LockConfig{Enabled: true, PinSaltB64: saltB64, PinVerifierB64: verifierB64}

	assert.True(t, VerifyPin("1234", cfg))
	assert.False(t, VerifyPin("4321", cfg))
	assert.False(t, VerifyPin("", cfg))
}

func TestVerifyPin_EmptyConfig(t *testing.T) {
	assert.False(t, VerifyPin("1234", LockConfig{}))
	assert.False(t, VerifyPin("1234", LockConfig{Enabled: true}))
}

func TestCreatePinVerifier_SaltIsFresh(t *testing.T) {
	s1, v1 := CreatePinVerifier("1234")
	s2, v2 := CreatePinVerifier("1234")
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, v1, v2)
}

func TestDeriveNotesKey_Deterministic(t *testing.T) {
	saltB64, _ := CreatePinVerifier("1234")

	k1, err := DeriveNotesKey("1234", saltB64)
	require.NoError(t, err)
	k2, err := DeriveNotesKey("1234", saltB64)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	k3, err := DeriveNotesKey("9999", saltB64)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}
