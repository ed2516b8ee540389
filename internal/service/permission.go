package service

import (
	"context"
	"log/slog"
	"strings"

	domainauth "github.com/uniport/campus-api/internal/domain/auth"
	"github.com/uniport/campus-api/internal/domain/model"
	apperrors "github.com/uniport/campus-api/internal/errors"
	"github.com/uniport/campus-api/internal/ports"
)

// PermissionServiceOptions groups dependencies for PermissionService.
type PermissionServiceOptions struct {
	Persons       ports.PersonRepository
	Claims        *ClaimAggregator
	RoleNamespace string
	Logger        *slog.Logger // Optional, defaults to slog.Default()
}

// PermissionService decides whether a caller may act on a person record.
// The required role depends on the record's runtime kind, not on any
// subtype relationship: a lecturer record demands the lecturer role even
// though lecturers are employees in the domain model. Every unresolvable
// situation (unknown record, base kind, unknown action) denies access.
type PermissionService struct {
	persons   ports.PersonRepository
	claims    *ClaimAggregator
	namespace string
	logger    *slog.Logger
}

// NewPermissionService constructs a new PermissionService.
func NewPermissionService(opts PermissionServiceOptions) *PermissionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PermissionService{
		persons:   opts.Persons,
		claims:    opts.Claims,
		namespace: opts.RoleNamespace,
		logger:    logger,
	}
}

// CanAccess reports whether the token's roles allow the action on the
// record identified by resourceID. It fails closed: false on unknown
// records, unknown actions, and kinds without a permission rule.
func (s *PermissionService) CanAccess(ctx context.Context, token domainauth.Token, resourceID string, action model.Action) bool {
	if !action.Valid() {
		return false
	}

	person, err := s.persons.GetByID(ctx, resourceID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.WarnContext(ctx, "permission lookup failed, denying access",
				"resource_id", resourceID, "error", err)
		}
		return false
	}
	if person == nil {
		return false
	}

	tag := person.Kind.RoleTag()
	if tag == "" {
		return false
	}

	required := s.namespace + "." + string(action) + "." + tag
	for _, role := range s.claims.RolesOf(token) {
		if strings.EqualFold(role, required) {
			return true
		}
	}
	return false
}
