package model

// Identity is the verified subject of a request: the account id and role
// carried by a valid access token. The zero value is not anonymous; use
// Anonymous to represent an unauthenticated caller.
type Identity struct {
	UserID    int64
	Role      Role
	anonymous bool
}

// NewIdentity creates an authenticated identity.
func NewIdentity(userID int64, role Role) Identity {
	return Identity{UserID: userID, Role: role}
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{anonymous: true}
}

// IsAnonymous reports whether the identity carries no authentication.
func (i Identity) IsAnonymous() bool {
	return i.anonymous
}
