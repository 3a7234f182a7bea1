package entity

// Role names carried in the auth token
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleUser   = "user"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleUser:
		return true
	}
	return false
}
