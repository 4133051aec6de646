package models

// Constraint is one field constraint inside a category rule. Values are
// transported as raw input strings; the backend interprets numbers and
// dates.
type Constraint struct {
	Key  string
	Type FieldType

	// Reference holds the single reference value of flat fields
	// (text, lookup, true/false).
	Reference string

	// Min and Max hold the range bounds of numeric and date/time
	// fields, and of the DateCreated pseudo-field.
	Min string
	Max string

	// MinCeil and MaxFloor are the propagated validation bounds:
	// editing Min floors the max input at that value, editing Max
	// caps the min input.
	MinCeil  string
	MaxFloor string
}

// SetMin updates the lower bound and propagates it as the floor of the
// paired max input
func (c *Constraint) SetMin(v string) {
	c.Min = v
	c.MaxFloor = v
}

// SetMax updates the upper bound and propagates it as the ceiling of the
// paired min input
func (c *Constraint) SetMax(v string) {
	c.Max = v
	c.MinCeil = v
}

// Empty reports whether the constraint carries no value and would be
// omitted from the serialized expression
func (c *Constraint) Empty() bool {
	if c.Type.IsRange() || c.Type == DateCreated {
		return c.Min == "" && c.Max == ""
	}
	return c.Reference == ""
}

// CategoryRule is the per-category node of the filter tree: the category
// toggle plus the field constraints added beneath it
type CategoryRule struct {
	CategoryID  int
	Name        string
	Enabled     bool
	Constraints []*Constraint
}

// Constraint returns the rule's constraint for the given field key, or nil
func (r *CategoryRule) Constraint(key string) *Constraint {
	for _, c := range r.Constraints {
		if c.Key == key {
			return c
		}
	}
	return nil
}
