package models

// FieldType identifies the type of a category field
type FieldType string

const (
	TextField           FieldType = "TextField"
	NumericField        FieldType = "NumericField"
	DateField           FieldType = "DateField"
	DateTimeField       FieldType = "DateTimeField"
	TimeField           FieldType = "TimeField"
	TrueFalseField      FieldType = "TrueFalseField"
	LookupField         FieldType = "LookupField"
	MultipleLookupField FieldType = "MultipleLookupField"

	// DateCreated is the pseudo-field for the contribution timestamp.
	// It is not part of any category definition but can be filtered on.
	DateCreated FieldType = "DateCreated"
)

// KnownFieldTypes lists every field type the backend can report
var KnownFieldTypes = []FieldType{
	TextField,
	NumericField,
	DateField,
	DateTimeField,
	TimeField,
	TrueFalseField,
	LookupField,
	MultipleLookupField,
}

// IsRange reports whether the field is filtered with a min/max pair
func (t FieldType) IsRange() bool {
	switch t {
	case NumericField, DateField, DateTimeField, TimeField:
		return true
	}
	return false
}

// IsKnown reports whether the type is one the backend can report,
// including the DateCreated pseudo-field
func (t FieldType) IsKnown() bool {
	if t == DateCreated {
		return true
	}
	for _, k := range KnownFieldTypes {
		if t == k {
			return true
		}
	}
	return false
}

// LookupValue is one enumerated option of a lookup field
type LookupValue struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Field is one typed attribute of a category
type Field struct {
	ID           int           `json:"id"`
	Key          string        `json:"key"`
	Name         string        `json:"name"`
	Type         FieldType     `json:"fieldtype"`
	Required     bool          `json:"required"`
	Status       string        `json:"status,omitempty"`
	LookupValues []LookupValue `json:"lookupvalues,omitempty"`
}

// Category is a user-defined record schema with a set of typed fields.
// Earlier backend revisions call this "observationtype" or "featuretype";
// the JSON shape is the same.
type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Fields      []Field `json:"fields"`
}

// Project is a data-collection project
type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	IsPrivate   bool       `json:"isprivate"`
	Categories  []Category `json:"categories,omitempty"`
}

// User is a registered backend user
type User struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
}

// UserGroup is a named permission group with a member list
type UserGroup struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CanModerate bool   `json:"can_moderate,omitempty"`
	Users       []User `json:"users"`
}

// App is a registered OAuth application
type App struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}
