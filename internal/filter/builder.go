package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/geokey/geoadmin/internal/models"
)

// ErrUnknownFieldType is returned when a constraint carries a field type
// the extraction rules do not cover
var ErrUnknownFieldType = errors.New("unknown field type")

// CreatedAtKey is the reserved pseudo-key for the contribution timestamp
const CreatedAtKey = "created_at"

// Builder owns the filter tree and derives the canonical JSON expression
// from it. It replaces the original console's hidden form field: the tree
// is explicit in-memory state, recomputed output is a pure function of it.
type Builder struct {
	allData bool
	rules   []*models.CategoryRule
}

// NewBuilder creates an empty builder in restricted (per-category) mode
func NewBuilder() *Builder {
	return &Builder{}
}

// SetCategories resets the tree to one disabled rule per category
func (b *Builder) SetCategories(categories []models.Category) {
	b.rules = b.rules[:0]
	for _, cat := range categories {
		b.rules = append(b.rules, &models.CategoryRule{
			CategoryID: cat.ID,
			Name:       cat.Name,
		})
	}
}

// SetAllData switches between "all data" mode and per-category
// restriction. In all-data mode the expression is the empty string and
// the tree is not walked.
func (b *Builder) SetAllData(v bool) {
	b.allData = v
}

// AllData reports whether the builder is in all-data mode
func (b *Builder) AllData() bool {
	return b.allData
}

// Rules returns the category rules in definition order
func (b *Builder) Rules() []*models.CategoryRule {
	return b.rules
}

// Rule returns the rule for the given category id, or nil
func (b *Builder) Rule(categoryID int) *models.CategoryRule {
	for _, r := range b.rules {
		if r.CategoryID == categoryID {
			return r
		}
	}
	return nil
}

// EnableCategory toggles a category's inclusion. Disabling drops the
// category from the expression regardless of leftover constraint state.
func (b *Builder) EnableCategory(categoryID int, enabled bool) {
	if r := b.Rule(categoryID); r != nil {
		r.Enabled = enabled
	}
}

// AddConstraint adds an empty constraint for a category field. The field
// type must be one of the known extraction rules; anything else is
// rejected here instead of silently producing nothing on recompute.
func (b *Builder) AddConstraint(categoryID int, field models.Field) (*models.Constraint, error) {
	if !field.Type.IsKnown() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, field.Type)
	}
	r := b.Rule(categoryID)
	if r == nil {
		return nil, fmt.Errorf("no rule for category %d", categoryID)
	}
	if c := r.Constraint(field.Key); c != nil {
		return c, nil
	}
	c := &models.Constraint{Key: field.Key, Type: field.Type}
	r.Constraints = append(r.Constraints, c)
	return c, nil
}

// AddCreatedConstraint adds the DateCreated pseudo-field constraint
func (b *Builder) AddCreatedConstraint(categoryID int) (*models.Constraint, error) {
	return b.AddConstraint(categoryID, models.Field{Key: CreatedAtKey, Type: models.DateCreated})
}

// RemoveConstraint removes a field constraint and reports how many
// constraints remain for the category. A count of zero means the
// category's detail area collapses back to the "restrict further"
// affordance; the category itself stays enabled.
func (b *Builder) RemoveConstraint(categoryID int, key string) int {
	r := b.Rule(categoryID)
	if r == nil {
		return 0
	}
	for i, c := range r.Constraints {
		if c.Key == key {
			r.Constraints = append(r.Constraints[:i], r.Constraints[i+1:]...)
			break
		}
	}
	return len(r.Constraints)
}

// Recompute derives the canonical JSON expression from the tree.
//
// An enabled category always appears in the output, as an empty object
// when it carries no effective constraints: the backend distinguishes
// "category granted without attribute restriction" from "category not
// granted". Constraints with no value are omitted entirely, never
// serialized as empty objects. Identical tree state yields byte-identical
// output (encoding/json sorts object keys).
func (b *Builder) Recompute() (string, error) {
	if b.allData {
		return "", nil
	}

	expr := make(map[string]map[string]interface{})
	for _, r := range b.rules {
		if !r.Enabled {
			continue
		}
		constraints := make(map[string]interface{})
		for _, c := range r.Constraints {
			if err := extract(constraints, c); err != nil {
				return "", err
			}
		}
		expr[strconv.Itoa(r.CategoryID)] = constraints
	}

	data, err := json.Marshal(expr)
	if err != nil {
		return "", fmt.Errorf("failed to serialize filter expression: %w", err)
	}
	return string(data), nil
}

// extract applies the per-type extraction rule for one constraint and
// writes the result into the category's constraint mapping
func extract(out map[string]interface{}, c *models.Constraint) error {
	switch c.Type {
	case models.DateCreated:
		// The timestamp pseudo-field serializes as min_date/max_date
		// beside the field keys, never as minval/maxval.
		if c.Min != "" {
			out["min_date"] = c.Min
		}
		if c.Max != "" {
			out["max_date"] = c.Max
		}
		return nil
	case models.NumericField, models.DateField, models.DateTimeField, models.TimeField:
		if c.Min == "" && c.Max == "" {
			return nil
		}
		rng := make(map[string]string)
		if c.Min != "" {
			rng["minval"] = c.Min
		}
		if c.Max != "" {
			rng["maxval"] = c.Max
		}
		out[c.Key] = rng
		return nil
	case models.TextField, models.TrueFalseField, models.LookupField, models.MultipleLookupField:
		if c.Reference == "" {
			return nil
		}
		out[c.Key] = c.Reference
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFieldType, c.Type)
	}
}
