package postgres

import (
	"bytes"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewSecretEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewSecretEncryptor() error = %v", err)
	}

	blob, err := enc.EncryptString("oauth-client-secret")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if blob[0] != secretVersion {
		t.Errorf("blob version = %d, want %d", blob[0], secretVersion)
	}

	plaintext, err := enc.DecryptString(blob)
	if err != nil {
		t.Fatalf("DecryptString() error = %v", err)
	}
	if plaintext != "oauth-client-secret" {
		t.Errorf("plaintext = %q, want original", plaintext)
	}
}

func TestEncryptProducesUniqueBlobs(t *testing.T) {
	enc, err := NewSecretEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewSecretEncryptor() error = %v", err)
	}

	a, _ := enc.EncryptString("same")
	b, _ := enc.EncryptString("same")
	if bytes.Equal(a, b) {
		t.Error("identical plaintexts produced identical blobs, nonce not random")
	}
}

func TestDecryptWrongKey(t *testing.T) {
	enc1, _ := NewSecretEncryptor(testKey())
	otherKey := testKey()
	otherKey[0] ^= 0xff
	enc2, _ := NewSecretEncryptor(otherKey)

	blob, _ := enc1.EncryptString("secret")
	if _, err := enc2.DecryptString(blob); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptString(wrong key) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecryptTamperedBlob(t *testing.T) {
	enc, _ := NewSecretEncryptor(testKey())

	blob, _ := enc.EncryptString("secret")
	blob[len(blob)-1] ^= 0x01

	if _, err := enc.DecryptString(blob); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptString(tampered) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecryptBadInput(t *testing.T) {
	enc, _ := NewSecretEncryptor(testKey())

	if _, err := enc.DecryptString([]byte{0x01, 0x02}); !errors.Is(err, ErrInvalidBlobSize) {
		t.Errorf("DecryptString(short) error = %v, want ErrInvalidBlobSize", err)
	}

	blob, _ := enc.EncryptString("secret")
	blob[0] = 0x7f
	if _, err := enc.DecryptString(blob); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("DecryptString(bad version) error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestNewSecretEncryptorKeySize(t *testing.T) {
	if _, err := NewSecretEncryptor(make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("NewSecretEncryptor(16 bytes) error = %v, want ErrInvalidKeySize", err)
	}
}

func TestPassphraseDerivationIsDeterministic(t *testing.T) {
	salt := []byte("stable-salt")
	enc1, err := NewSecretEncryptorFromPassphrase("correct horse", salt)
	if err != nil {
		t.Fatalf("NewSecretEncryptorFromPassphrase() error = %v", err)
	}
	enc2, err := NewSecretEncryptorFromPassphrase("correct horse", salt)
	if err != nil {
		t.Fatalf("NewSecretEncryptorFromPassphrase() error = %v", err)
	}

	// Same passphrase and salt must decrypt across restarts.
	blob, _ := enc1.EncryptString("secret")
	plaintext, err := enc2.DecryptString(blob)
	if err != nil || plaintext != "secret" {
		t.Errorf("DecryptString() = %q, %v; want original plaintext", plaintext, err)
	}
}

func TestPassphraseRequired(t *testing.T) {
	if _, err := NewSecretEncryptorFromPassphrase("", []byte("salt")); err == nil {
		t.Error("NewSecretEncryptorFromPassphrase(\"\") error = nil, want error")
	}
}
