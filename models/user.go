// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// User is the account identity returned by the auth endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Credentials is the body of the register and login calls.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthTokenResponse is returned by register and login.
type AuthTokenResponse struct {
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	ExpiresIn   int64      `json:"expiresIn"`
	User        User       `json:"user"`
	E2ee        E2eeParams `json:"e2ee"`
}

// StoredSession is the persisted part of a session. It lets the client
// unlock offline. It never carries the encryption key.
type StoredSession struct {
	User    User
	Token   string
	E2ee    E2eeParams
	SavedAt LocalDateTime
}
