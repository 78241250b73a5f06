package model

import "github.com/nyaruka/phonenumbers"

// defaultRegion is assumed for contact numbers written without a
// country prefix.
const defaultRegion = "IN"

type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Contact    string `json:"contact"`
	HealthInfo string `json:"healthInfo"`
}

// Normalize coerces fields at the repository boundary. Contact numbers
// are stored in E.164 when parseable; anything else is kept verbatim,
// since validation must never reject a write.
func (p *Patient) Normalize() {
	p.Contact = NormalizeContact(p.Contact)
}

func NormalizeContact(raw string) string {
	if raw == "" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
