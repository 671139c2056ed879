package schema

// IdentityPersonTable represents the 'public.person' table
type IdentityPersonTable struct {
	Table       string
	ID          string
	FirstName   string
	LastName    string
	Gender      string
	DateOfBirth string
	Email       string
	Password    string
	CountryCode string
	RoleID      string
}

// IdentityPerson is the schema definition for public.person
var IdentityPerson = IdentityPersonTable{
	Table:       "public.person",
	ID:          "id",
	FirstName:   "first_name",
	LastName:    "last_name",
	Gender:      "gender",
	DateOfBirth: "date_of_birth",
	Email:       "email",
	Password:    "password",
	CountryCode: "country_code",
	RoleID:      "role_id",
}

// PersonEmailConstraint is the name of the UNIQUE constraint on person.email
const PersonEmailConstraint = "person_email_key"

// Columns returns all standard column names
func (t IdentityPersonTable) Columns() []string {
	return []string{
		t.ID, t.FirstName, t.LastName, t.Gender, t.DateOfBirth,
		t.Email, t.Password, t.CountryCode, t.RoleID,
	}
}
