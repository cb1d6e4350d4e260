package model

// Permission represents a string code for a specific back-office action.
type Permission string

const (
	PermissionContentWrite       Permission = "content:write"
	PermissionExamsWrite         Permission = "exams:write"
	PermissionRegistrationsRead  Permission = "registrations:read"
	PermissionRegistrationsWrite Permission = "registrations:write"
	PermissionGrievancesWrite    Permission = "grievances:write"
	PermissionContactsWrite      Permission = "contacts:write"
	PermissionResultsWrite       Permission = "results:write"
	PermissionAdminsRead         Permission = "admins:read"
	PermissionAdminsWrite        Permission = "admins:write"
	PermissionSettingsWrite      Permission = "settings:write"
	PermissionDashboardRead      Permission = "dashboard:read"
	PermissionAnalyticsRead      Permission = "analytics:read"
	PermissionMediaUpload        Permission = "media:upload"
	PermissionTemplatesWrite     Permission = "templates:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionContentWrite,
	PermissionExamsWrite,
	PermissionRegistrationsRead,
	PermissionRegistrationsWrite,
	PermissionGrievancesWrite,
	PermissionContactsWrite,
	PermissionResultsWrite,
	PermissionAdminsRead,
	PermissionAdminsWrite,
	PermissionSettingsWrite,
	PermissionDashboardRead,
	PermissionAnalyticsRead,
	PermissionMediaUpload,
	PermissionTemplatesWrite,
}

// AdminRole is the fixed role attached to an admin account.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleStaff      AdminRole = "staff"
	RoleDataEntry  AdminRole = "data_entry"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// RolePermissions maps every role to the permissions it grants.
var RolePermissions = map[AdminRole][]Permission{
	RoleSuperAdmin: AllPermissions,
	RoleStaff: {
		PermissionContentWrite,
		PermissionExamsWrite,
		PermissionRegistrationsRead,
		PermissionRegistrationsWrite,
		PermissionGrievancesWrite,
		PermissionContactsWrite,
		PermissionResultsWrite,
		PermissionDashboardRead,
		PermissionMediaUpload,
	},
	RoleDataEntry: {
		PermissionContentWrite,
		PermissionResultsWrite,
		PermissionMediaUpload,
	},
}

// PermissionCodes returns the role's permissions as plain strings for JWT claims.
func (r AdminRole) PermissionCodes() []string {
	perms := RolePermissions[r]
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}
