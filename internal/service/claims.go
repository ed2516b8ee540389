// Package service provides the orchestration layer for directory
// enrichment, user provisioning, and authorization resolution.
package service

import (
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/uniport/campus-api/internal/domain/auth"
)

// Claim locations honored by the aggregator. Each is independent; a
// missing or structurally unexpected claim contributes no roles instead of
// failing the aggregation.
const (
	groupsClaimExpr     = "groups"
	realmRolesClaimExpr = "realm_access.roles"
)

// ClaimAggregator gathers role names from the caller token's claim
// document: the flat groups claim, the realm roles, and the roles granted
// for this service's client under resource_access.
type ClaimAggregator struct {
	resourceRolesExpr string
}

// NewClaimAggregator creates an aggregator honoring resource_access roles
// of the given client ID.
func NewClaimAggregator(clientID string) *ClaimAggregator {
	return &ClaimAggregator{
		resourceRolesExpr: fmt.Sprintf("resource_access.%q.roles", clientID),
	}
}

// RolesOf returns the deduplicated union of role names across all claim
// locations. First-seen casing is preserved; duplicates are detected
// case-insensitively because role comparison elsewhere ignores case.
// The result is recomputed per call and never cached.
func (a *ClaimAggregator) RolesOf(token domainauth.Token) []string {
	var roles []string
	seen := make(map[string]struct{})

	for _, expr := range []string{groupsClaimExpr, realmRolesClaimExpr, a.resourceRolesExpr} {
		for _, role := range rolesAt(expr, token.Claims) {
			key := strings.ToLower(role)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			roles = append(roles, role)
		}
	}
	return roles
}

// rolesAt evaluates one claim location. Evaluation errors, missing paths,
// and non-list or non-string shapes all yield no roles.
func rolesAt(expr string, claims map[string]any) []string {
	if claims == nil {
		return nil
	}

	result, err := jmespath.Search(expr, claims)
	if err != nil {
		return nil
	}

	items, ok := result.([]any)
	if !ok {
		return nil
	}

	var roles []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			roles = append(roles, s)
		}
	}
	return roles
}
