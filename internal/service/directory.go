package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniport/campus-api/internal/domain/model"
	apperrors "github.com/uniport/campus-api/internal/errors"
	"github.com/uniport/campus-api/internal/ports"
)

// DirectoryServiceOptions groups dependencies for DirectoryService.
type DirectoryServiceOptions struct {
	Directory ports.DirectoryClient
	Logger    *slog.Logger // Optional, defaults to slog.Default()
}

// DirectoryService orchestrates user provisioning in the identity
// directory. Creation failures are surfaced and never retried here: the
// directory may already hold the user, and duplicate creation is worse
// than asking an operator to reconcile via lookup.
type DirectoryService struct {
	directory ports.DirectoryClient
	logger    *slog.Logger
}

// NewDirectoryService constructs a new DirectoryService.
func NewDirectoryService(opts DirectoryServiceOptions) *DirectoryService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryService{
		directory: opts.Directory,
		logger:    logger,
	}
}

// CreateUser provisions a directory user. Any non-validation failure is
// reported as a creation failure so callers see one error for the whole
// create path, with the underlying cause (e.g. directory unavailability)
// preserved in the chain.
func (s *DirectoryService) CreateUser(ctx context.Context, req model.CreateDirectoryUserRequest) (*model.DirectoryUser, error) {
	user, err := s.directory.CreateUser(ctx, req)
	if err != nil {
		if apperrors.IsValidation(err) || errors.Is(err, ports.ErrDirectoryCreateFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrDirectoryCreateFailed, err)
	}

	s.logger.InfoContext(ctx, "directory user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// ProvisionPerson creates a directory user for a local person record,
// sharing the record's ID as the cross-system identifier. The username is
// derived from the email's local part.
func (s *DirectoryService) ProvisionPerson(ctx context.Context, person model.Person) (*model.DirectoryUser, error) {
	return s.CreateUser(ctx, model.CreateDirectoryUserRequest{
		ID:        person.ID,
		Username:  usernameFromEmail(person.Email),
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Email:     person.Email,
		Enabled:   true,
	})
}

// usernameFromEmail returns the lowercased local part of an email address.
func usernameFromEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
