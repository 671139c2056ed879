package schema

// IdentityRoleTable represents the 'public.roles' table
type IdentityRoleTable struct {
	Table    string
	ID       string
	RoleName string
}

// IdentityRole is the schema definition for public.roles
var IdentityRole = IdentityRoleTable{
	Table:    "public.roles",
	ID:       "id",
	RoleName: "role_name",
}

// Columns returns all standard column names
func (t IdentityRoleTable) Columns() []string {
	return []string{t.ID, t.RoleName}
}
