package shared

import (
	"fmt"
	"strings"
)

// Address is an immutable postal address; every field is required.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
}

func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	fields := []struct{ name, value string }{
		{"street", street},
		{"city", city},
		{"state", state},
		{"zip_code", zipCode},
		{"country", country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Address{}, NewValidationError("address", f.name, "must not be blank")
		}
	}
	return Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
	}, nil
}

func (a Address) Street() string  { return a.street }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zipCode }
func (a Address) Country() string { return a.country }

// IsZero reports whether the address was never constructed.
func (a Address) IsZero() bool { return a == Address{} }

func (a Address) WithStreet(street string) (Address, error) {
	return NewAddress(street, a.city, a.state, a.zipCode, a.country)
}

func (a Address) WithCity(city string) (Address, error) {
	return NewAddress(a.street, city, a.state, a.zipCode, a.country)
}

func (a Address) WithState(state string) (Address, error) {
	return NewAddress(a.street, a.city, state, a.zipCode, a.country)
}

func (a Address) WithZipCode(zipCode string) (Address, error) {
	return NewAddress(a.street, a.city, a.state, zipCode, a.country)
}

func (a Address) WithCountry(country string) (Address, error) {
	return NewAddress(a.street, a.city, a.state, a.zipCode, country)
}

func (a Address) IsSameCountryAs(other Address) bool {
	return strings.EqualFold(a.country, other.country)
}

// IsInternational compares against the shop's home country.
func (a Address) IsInternational(baseCountry string) bool {
	return !strings.EqualFold(a.country, baseCountry)
}

func (a Address) Equals(other Address) bool { return a == other }

func (a Address) Formatted() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.street, a.city, a.state, a.zipCode, a.country)
}
