package secretbox

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew(t *testing.T) {
	if _, err := New(testKey()); err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if _, err := New(make([]byte, 16)); err == nil {
		t.Error("expected error with 16-byte key")
	}
}

func TestSealOpen(t *testing.T) {
	box, err := New(testKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{"password", []byte("password_queue:1"), []byte("Xk7pQ2mN4r")},
		{"empty", []byte("password_queue:2"), []byte{}},
		{"long", []byte("ctx"), bytes.Repeat([]byte("x"), 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := box.Seal(tt.aad, tt.plaintext)
			if err != nil {
				t.Fatalf("seal failed: %v", err)
			}
			if sealed[0] != versionMagic {
				t.Errorf("missing version byte")
			}
			opened, err := box.Open(tt.aad, sealed)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if !bytes.Equal(opened, tt.plaintext) {
				t.Errorf("got %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestOpenRejectsWrongContext(t *testing.T) {
	box, _ := New(testKey())
	sealed, err := box.Seal([]byte("password_queue:1"), []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := box.Open([]byte("password_queue:2"), sealed); err == nil {
		t.Error("expected open to fail with a different aad")
	}
}

func TestOpenRejectsMalformed(t *testing.T) {
	box, _ := New(testKey())
	if _, err := box.Open(nil, []byte("short")); err != ErrMalformed {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	sealed, _ := box.Seal(nil, []byte("secret"))
	sealed[len(sealed)-1] ^= 0xff
	if _, err := box.Open(nil, sealed); err == nil {
		t.Error("expected tampered data to fail")
	}
}

func TestGenerateKey(t *testing.T) {
	encoded, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != KeySize {
		t.Fatalf("expected %d byte base64 key, got %d (%v)", KeySize, len(raw), err)
	}
	if _, err := NewFromBase64(encoded); err != nil {
		t.Errorf("NewFromBase64 failed: %v", err)
	}
	if _, err := NewFromBase64("not base64!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
