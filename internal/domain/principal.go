package domain

// Role caller role supplied by the upstream gateway
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin" // provider administrator
)

// ViewerRoles roles allowed to browse providers and availability
var ViewerRoles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleAdmin
}

// IsViewer returns true if the role may browse availability
func (r Role) IsViewer() bool {
	for _, v := range ViewerRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Principal authenticated caller
type Principal struct {
	UserID int64
	Role   Role
}
