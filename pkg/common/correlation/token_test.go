package correlation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	base := NewSession("C1", "U1")
	if base.Session == "" {
		t.Fatal("NewSession should assign a session id")
	}

	raw, err := s.Encode(base.ForPerson("U2", "V9"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(raw) > 3000 {
		t.Errorf("token too long for private metadata: %d", len(raw))
	}
	got, err := s.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Token{Session: base.Session, Channel: "C1", User: "U1", Person: "U2", ParentView: "V9"}
	if got != want {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
}

func TestDecodeRejects(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	raw, err := s.Encode(NewSession("C1", "U1"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	otherRaw, err := s.Encode(NewSession("C2", "U2"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	parts, otherParts := strings.Split(raw, "."), strings.Split(otherRaw, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	other := NewSigner("another-secret", time.Hour)
	expired := NewSigner("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Encode(NewSession("C1", "U1"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name   string
		signer *Signer
		raw    string
	}{
		{name: "empty", signer: s, raw: ""},
		{name: "garbage", signer: s, raw: "not-a-token"},
		{name: "wrong key", signer: other, raw: raw},
		{name: "tampered", signer: s, raw: tampered},
		{name: "expired", signer: s, raw: stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.signer.Decode(tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Decode(%s) err = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}
