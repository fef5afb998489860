// Package correlation signs the opaque state carried in a view's private
// metadata, linking a submission back to the channel, session and parent view
// it came from. Every view uses the same format: a compact HS256 JWT.
package correlation

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalidToken wraps every decode failure (bad signature, expiry, garbage).
var ErrInvalidToken = errors.New("correlation: invalid token")

// DefaultTTL bounds how long a modal may stay open before its state is rejected.
const DefaultTTL = 12 * time.Hour

const (
	issuer        = "housejobs"
	claimSession  = "sid"
	claimChannel  = "ch"
	claimUser     = "by"
	claimPerson   = "pid"
	claimParentID = "pv"
)

// Token is the decoded correlation state.
type Token struct {
	Session    string
	Channel    string
	User       string
	Person     string
	ParentView string
}

// NewSession starts a token for a freshly opened roster.
func NewSession(channel, user string) Token {
	return Token{Session: uuid.NewString(), Channel: channel, User: user}
}

// ForPerson derives the token of an editor pushed on top of parentView.
func (t Token) ForPerson(personID, parentView string) Token {
	t.Person = personID
	t.ParentView = parentView
	return t
}

// Signer encodes and verifies tokens with a key derived from a shared secret.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner derives the HMAC key from secret. ttl <= 0 uses DefaultTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	sum := sha256.Sum256([]byte("housejobs/correlation:" + secret))
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{key: sum[:], ttl: ttl, now: time.Now}
}

func (s *Signer) Encode(t Token) (string, error) {
	now := s.now()
	b := jwt.NewBuilder().
		Issuer(issuer).
		IssuedAt(now).
		Expiration(now.Add(s.ttl)).
		Claim(claimSession, t.Session).
		Claim(claimChannel, t.Channel).
		Claim(claimUser, t.User)
	if t.Person != "" {
		b = b.Claim(claimPerson, t.Person)
	}
	if t.ParentView != "" {
		b = b.Claim(claimParentID, t.ParentView)
	}
	tok, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("build correlation token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.key))
	if err != nil {
		return "", fmt.Errorf("sign correlation token: %w", err)
	}
	return string(signed), nil
}

func (s *Signer) Decode(raw string) (Token, error) {
	if raw == "" {
		return Token{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	tok, err := jwt.ParseString(raw,
		jwt.WithKey(jwa.HS256, s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	out := Token{
		Session:    stringClaim(tok, claimSession),
		Channel:    stringClaim(tok, claimChannel),
		User:       stringClaim(tok, claimUser),
		Person:     stringClaim(tok, claimPerson),
		ParentView: stringClaim(tok, claimParentID),
	}
	if out.Session == "" {
		return Token{}, fmt.Errorf("%w: missing session", ErrInvalidToken)
	}
	return out, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
