// Package access decides whether a caller identity satisfies an
// operation's declared requirement. Evaluation is a pure function over
// the identity, the requirement and, for self-or-role rules, the id of
// the account owning the target resource.
package access

import (
	"fmt"
	"slices"

	"github.com/accountd/accountd/internal/model"
)

// Evaluate applies requirement to identity. ownerID is only consulted for
// self-or-role requirements; callers resolve ownership before delegating
// the decision. Roles form a flat set, so an admin passes a role check
// only when admin is explicitly listed.
func Evaluate(identity model.Identity, requirement model.Requirement, ownerID int64) model.Decision {
	switch requirement.Kind {
	case model.RequirementPublic:
		return model.Allow()

	case model.RequirementAuthenticated:
		if identity.IsAnonymous() {
			return model.Deny("authentication required")
		}
		return model.Allow()

	case model.RequirementRole:
		if identity.IsAnonymous() {
			return model.Deny("authentication required")
		}
		if !slices.Contains(requirement.Roles, identity.Role) {
			return model.Deny(fmt.Sprintf("role %q is not permitted", identity.Role))
		}
		return model.Allow()

	case model.RequirementSelfOrRole:
		if identity.IsAnonymous() {
			return model.Deny("authentication required")
		}
		if identity.UserID == ownerID {
			return model.Allow()
		}
		if slices.Contains(requirement.Roles, identity.Role) {
			return model.Allow()
		}
		return model.Deny("caller is neither the resource owner nor permitted by role")

	default:
		return model.Deny("unknown requirement")
	}
}

// Check converts a decision into the error taxonomy: nil on allow,
// ErrAuthenticationMissing for an anonymous caller and DeniedError for an
// authenticated one.
func Check(identity model.Identity, requirement model.Requirement, ownerID int64) error {
	decision := Evaluate(identity, requirement, ownerID)
	if decision.Allowed {
		return nil
	}
	if identity.IsAnonymous() {
		return model.ErrAuthenticationMissing
	}
	return model.NewDeniedError(decision.Reason)
}
