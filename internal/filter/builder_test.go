package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/geokey/geoadmin/internal/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{
			ID:   1,
			Name: "Trees",
			Fields: []models.Field{
				{ID: 10, Key: "count", Name: "Count", Type: models.NumericField},
				{ID: 11, Key: "species", Name: "Species", Type: models.TextField},
				{ID: 12, Key: "planted", Name: "Planted", Type: models.DateField},
			},
		},
		{
			ID:   2,
			Name: "Benches",
			Fields: []models.Field{
				{ID: 20, Key: "material", Name: "Material", Type: models.LookupField},
			},
		},
	}
}

func newTestBuilder() *Builder {
	b := NewBuilder()
	b.SetCategories(testCategories())
	return b
}

func TestRecompute_RangeField(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	c, err := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	if err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	c.SetMin("3")

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	want := `{"1":{"count":{"minval":"3"}}}`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)
	b.EnableCategory(2, true)

	c, _ := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	c.SetMin("5")
	c.SetMax("10")
	ref, _ := b.AddConstraint(2, models.Field{Key: "material", Type: models.LookupField})
	ref.Reference = "12"

	first, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	second, err := b.Recompute()
	if err != nil {
		t.Fatalf("second Recompute failed: %v", err)
	}
	if first != second {
		t.Errorf("expected identical output, got %s then %s", first, second)
	}
}

func TestRecompute_OmitsEmptyConstraints(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	if _, err := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField}); err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	if _, err := b.AddConstraint(1, models.Field{Key: "species", Type: models.TextField}); err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if got != `{"1":{}}` {
		t.Errorf("empty constraints must be omitted, got %s", got)
	}
}

func TestRecompute_CategoryGating(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(2, true)

	// Leftover constraint state on a disabled category must not leak.
	c, _ := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	c.SetMin("1")

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if strings.Contains(got, `"1"`) {
		t.Errorf("disabled category must not appear in output, got %s", got)
	}
	if got != `{"2":{}}` {
		t.Errorf("expected {\"2\":{}}, got %s", got)
	}
}

func TestRecompute_AllDataShortCircuit(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)
	c, _ := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	c.SetMin("3")

	b.SetAllData(true)

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if got != "" {
		t.Errorf("all-data mode must produce the empty string, got %q", got)
	}
}

func TestRecompute_CreatedAtUsesDateKeys(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	created, err := b.AddCreatedConstraint(1)
	if err != nil {
		t.Fatalf("AddCreatedConstraint failed: %v", err)
	}
	created.SetMin("2014-01-01")
	created.SetMax("2014-12-31")

	planted, _ := b.AddConstraint(1, models.Field{Key: "planted", Type: models.DateField})
	planted.SetMin("2014-06-01")

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	want := `{"1":{"max_date":"2014-12-31","min_date":"2014-01-01","planted":{"minval":"2014-06-01"}}}`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if strings.Contains(got, "created_at") {
		t.Errorf("created_at must serialize to min_date/max_date, got %s", got)
	}
}

func TestSetMinPropagatesBounds(t *testing.T) {
	c := &models.Constraint{Key: "count", Type: models.NumericField}

	c.SetMin("10")
	if c.MaxFloor != "10" {
		t.Errorf("expected MaxFloor '10', got '%s'", c.MaxFloor)
	}

	c.SetMax("20")
	if c.MinCeil != "20" {
		t.Errorf("expected MinCeil '20', got '%s'", c.MinCeil)
	}
}

func TestAddConstraint_UnknownType(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	_, err := b.AddConstraint(1, models.Field{Key: "video", Type: models.FieldType("VideoField")})
	if !errors.Is(err, ErrUnknownFieldType) {
		t.Errorf("expected ErrUnknownFieldType, got %v", err)
	}
}

func TestAddConstraint_Duplicate(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	first, _ := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	second, err := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	if err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	if first != second {
		t.Error("adding the same key twice must return the existing constraint")
	}
}

func TestRemoveConstraint(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(1, true)

	c, _ := b.AddConstraint(1, models.Field{Key: "count", Type: models.NumericField})
	c.SetMin("3")
	b.AddConstraint(1, models.Field{Key: "species", Type: models.TextField})

	remaining := b.RemoveConstraint(1, "count")
	if remaining != 1 {
		t.Errorf("expected 1 remaining constraint, got %d", remaining)
	}

	remaining = b.RemoveConstraint(1, "species")
	if remaining != 0 {
		t.Errorf("expected 0 remaining constraints, got %d", remaining)
	}

	// The category stays enabled with an empty constraint mapping.
	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if got != `{"1":{}}` {
		t.Errorf("expected {\"1\":{}}, got %s", got)
	}
}

func TestRecompute_ReferenceFields(t *testing.T) {
	b := newTestBuilder()
	b.EnableCategory(2, true)

	c, _ := b.AddConstraint(2, models.Field{Key: "material", Type: models.LookupField})
	c.Reference = "34"

	got, err := b.Recompute()
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	want := `{"2":{"material":"34"}}`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
