package model

// RequirementKind enumerates access requirement kinds.
type RequirementKind int

const (
	// RequirementPublic allows every caller.
	RequirementPublic RequirementKind = iota
	// RequirementAuthenticated allows any authenticated caller.
	RequirementAuthenticated
	// RequirementRole allows callers whose role is in the allowed set.
	RequirementRole
	// RequirementSelfOrRole allows the owner of the target resource or
	// callers whose role is in the allowed set.
	RequirementSelfOrRole
)

// Requirement declares which callers may invoke an operation. It is a
// plain value attached to the operation and evaluated as a pure function,
// not router middleware.
type Requirement struct {
	Kind  RequirementKind
	Roles []Role
}

// Public requires nothing.
func Public() Requirement {
	return Requirement{Kind: RequirementPublic}
}

// AuthenticatedOnly requires any authenticated identity.
func AuthenticatedOnly() Requirement {
	return Requirement{Kind: RequirementAuthenticated}
}

// RoleIn requires the caller's role to be one of roles.
func RoleIn(roles ...Role) Requirement {
	return Requirement{Kind: RequirementRole, Roles: roles}
}

// SelfOrRole requires the caller to own the target resource or to hold
// one of roles.
func SelfOrRole(roles ...Role) Requirement {
	return Requirement{Kind: RequirementSelfOrRole, Roles: roles}
}

// Decision is the outcome of evaluating a requirement.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with a human-readable reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
