// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator validates bearer tokens on protected routes.
type Authenticator struct {
	secret   []byte
	disabled bool
}

// NewAuthenticator creates a JWT bearer-token authenticator. A disabled
// authenticator passes every request through, for local development.
func NewAuthenticator(secret string, disabled bool) *Authenticator {
	return &Authenticator{secret: []byte(secret), disabled: disabled}
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.disabled {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, err.Error())
			return
		}

		if err := a.verify(token); err != nil {
			respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}
	return strings.TrimPrefix(header, prefix), nil
}

// verify parses and validates the token signature and claims.
func (a *Authenticator) verify(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("token invalid")
	}
	return nil
}
