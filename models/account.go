package models

import "time"

// ServiceAccount identifies a caller of this API (a bot process), not an
// end user. End users are opaque chat user ids scoped under the account.
type ServiceAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenRequest struct {
	Name   string `json:"name" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	Account     ServiceAccount `json:"account"`
}
