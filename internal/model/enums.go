package model

// Department is the fixed organisational unit an idea or user belongs to.
type Department string

const (
	DepartmentEngineering          Department = "Engineering"
	DepartmentOperations           Department = "Operations"
	DepartmentProfessionalServices Department = "Professional_Services"
)

// Departments lists every valid department in display order.
var Departments = []Department{
	DepartmentEngineering,
	DepartmentOperations,
	DepartmentProfessionalServices,
}

// Valid reports whether d is one of Departments.
func (d Department) Valid() bool {
	for _, v := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

// Status is the lifecycle tag of an idea. Any status may move to any other.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusImplemented Status = "implemented"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusImplemented}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Role controls what a user may do.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
