package schema

// ReferenceCountryTable represents the 'public.country' table
type ReferenceCountryTable struct {
	Table       string
	ID          string
	CountryName string
	CapitalCity string
	CountryCode string
}

// ReferenceCountry is the schema definition for public.country
var ReferenceCountry = ReferenceCountryTable{
	Table:       "public.country",
	ID:          "id",
	CountryName: "country_name",
	CapitalCity: "capital_city",
	CountryCode: "country_code",
}

// Columns returns all standard column names
func (t ReferenceCountryTable) Columns() []string {
	return []string{t.ID, t.CountryName, t.CapitalCity, t.CountryCode}
}

// CountryCodeConstraint is the name of the UNIQUE constraint on country.country_code
const CountryCodeConstraint = "country_country_code_key"
