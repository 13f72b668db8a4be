package record

import (
	"encoding/json"
	"strings"
)

// Record is one validated contact row. It has no setters; build it with New.
type Record struct {
	firstName string
	phone     string
	notes     string
}

// New trims the given values and returns a Record. It does not validate;
// use Validate or go through the normalizer.
func New(firstName, phone, notes string) Record {
	return Record{
		firstName: strings.TrimSpace(firstName),
		phone:     strings.TrimSpace(phone),
		notes:     strings.TrimSpace(notes),
	}
}

func (r Record) FirstName() string { return r.firstName }
func (r Record) Phone() string     { return r.phone }
func (r Record) Notes() string     { return r.notes }

// Validate reports the first missing required field, or "" when the record
// is complete.
func (r Record) Validate() (field string, ok bool) {
	if r.firstName == "" {
		return FieldFirstName, false
	}
	if r.phone == "" {
		return FieldPhone, false
	}
	return "", true
}

type wire struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{FirstName: r.firstName, Phone: r.phone, Notes: r.notes})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = New(w.FirstName, w.Phone, w.Notes)
	return nil
}
