package auth

// Role values carried in the JWT and stored on the user record.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Identity is the caller extracted from a verified token: who they are and
// what role they hold. It carries no other claims.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller holds the Admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// OrderScope is the subset of orders a caller may see or act on.
// An unrestricted scope (admin) has Restricted=false; otherwise only
// orders owned by UserID are visible.
type OrderScope struct {
	Restricted bool
	UserID     string
}

// ScopeFor computes the order visibility scope for a caller: admins see
// everything, everyone else sees only their own orders.
func ScopeFor(id Identity) OrderScope {
	if id.IsAdmin() {
		return OrderScope{}
	}
	return OrderScope{Restricted: true, UserID: id.UserID}
}

// CanMutateProducts reports whether the caller may create, update or delete
// products. Only admins may.
func CanMutateProducts(id Identity) bool {
	return id.IsAdmin()
}

// CanRegisterUsers reports whether the caller may register new accounts.
func CanRegisterUsers(id Identity) bool {
	return id.IsAdmin()
}

// CanDeleteOrder reports whether the caller may delete the order owned by
// ownerID. Admins may delete any order, owners their own.
func CanDeleteOrder(id Identity, ownerID string) bool {
	return id.IsAdmin() || id.UserID == ownerID
}
