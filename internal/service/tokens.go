package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenGenerator maps a normalised email to the opaque scan token stored on
// the attendee. Implementations must be deterministic: the same email always
// yields the same token.
type TokenGenerator interface {
	Generate(email string) (string, error)
}

// TokenGeneratorFunc adapts a plain function to TokenGenerator.
type TokenGeneratorFunc func(email string) (string, error)

func (f TokenGeneratorFunc) Generate(email string) (string, error) { return f(email) }

// DefaultTokenNamespace seeds UUIDTokens when no namespace is configured.
var DefaultTokenNamespace = uuid.MustParse("6f1c2a52-7d0e-5b8e-9c43-2f4d8b1e0a77")

// UUIDTokens issues name based (version 5) UUIDs of the email.
type UUIDTokens struct {
	Namespace uuid.UUID
}

func (g UUIDTokens) Generate(email string) (string, error) {
	ns := g.Namespace
	if ns == uuid.Nil {
		ns = DefaultTokenNamespace
	}
	return uuid.NewSHA1(ns, []byte(email)).String(), nil
}

// SignedTokens issues HS256 JWTs whose subject is the email. No time based
// claims are set so the output stays stable for a given secret.
type SignedTokens struct {
	Secret []byte
	Issuer string
}

func (g SignedTokens) Generate(email string) (string, error) {
	if len(g.Secret) == 0 {
		return "", errors.New("signed tokens: empty secret")
	}
	claims := jwt.RegisteredClaims{
		Issuer:  g.Issuer,
		Subject: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.Secret)
}
