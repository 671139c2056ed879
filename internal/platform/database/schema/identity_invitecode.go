package schema

// IdentityInviteCodeTable represents the 'public.invitecode' table
type IdentityInviteCodeTable struct {
	Table  string
	Code   string
	RoleID string
}

// IdentityInviteCode is the schema definition for public.invitecode
var IdentityInviteCode = IdentityInviteCodeTable{
	Table:  "public.invitecode",
	Code:   "code",
	RoleID: "role_id",
}

// Columns returns all standard column names
func (t IdentityInviteCodeTable) Columns() []string {
	return []string{t.Code, t.RoleID}
}
