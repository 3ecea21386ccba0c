package rbac

// Role names. Keep these stable; they are stored on profile rows and
// embedded in access tokens.
const (
	RoleAdmin  = "admin"
	RoleCaller = "caller"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCaller:
		return true
	default:
		return false
	}
}
