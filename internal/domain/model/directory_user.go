//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"

	apperrors "github.com/uniport/campus-api/internal/errors"
)

// DirectoryUser is the transient representation of a user record held by
// the identity directory. It is constructed per response and never
// persisted locally; ID is the cross-system identifier shared with the
// person record's primary key.
type DirectoryUser struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Groups    []string `json:"groups,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Enabled   bool     `json:"enabled"`
}

// CreateDirectoryUserRequest carries the parameters for provisioning a
// directory user. ID is supplied by the caller so the directory record and
// the local person record share one identifier.
type CreateDirectoryUserRequest struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Groups    []string `json:"groups,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Enabled   bool     `json:"enabled"`
}

// Normalize trims whitespace and lowercases the username and email in place.
func (r *CreateDirectoryUserRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate checks the fields required by the directory's creation endpoint.
func (r *CreateDirectoryUserRequest) Validate() error {
	if r.ID == "" {
		return apperrors.ValidationField("id", "id is required")
	}
	if r.Username == "" {
		return apperrors.ValidationField("username", "username is required")
	}
	if r.Email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	return nil
}
