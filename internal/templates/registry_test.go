package templates

import (
	"strings"
	"testing"

	"github.com/geokey/geoadmin/internal/models"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newRegistry(t)
	field := models.Field{Key: "count", Name: "Count", Type: models.NumericField}

	first, err := r.Render("field", field)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := r.Render("field", field)
	if err != nil {
		t.Fatalf("second Render failed: %v", err)
	}
	if first != second {
		t.Error("identical context must render identical output")
	}
}

func TestFieldDispatchByType(t *testing.T) {
	r := newRegistry(t)

	cases := []struct {
		fieldType models.FieldType
		want      string
	}{
		{models.TextField, "reference value"},
		{models.NumericField, "count-min"},
		{models.DateField, "YYYY-MM-DD"},
		{models.DateTimeField, "YYYY-MM-DD H:mm"},
		{models.TimeField, "HH:mm"},
		{models.TrueFalseField, "( ) true"},
	}

	for _, tc := range cases {
		out, err := r.Render("field", models.Field{Key: "count", Name: "Count", Type: tc.fieldType})
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", tc.fieldType, err)
		}
		if !strings.Contains(out, tc.want) {
			t.Errorf("%s: expected output to contain %q, got %q", tc.fieldType, tc.want, out)
		}
	}
}

func TestLookupFieldRendersOptions(t *testing.T) {
	r := newRegistry(t)
	field := models.Field{
		Key:  "species",
		Name: "Species",
		Type: models.LookupField,
		LookupValues: []models.LookupValue{
			{ID: 1, Name: "Oak"},
			{ID: 2, Name: "Ash"},
		},
	}

	out, err := r.Render("field", field)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "( ) Oak") || !strings.Contains(out, "( ) Ash") {
		t.Errorf("expected lookup options, got %q", out)
	}
}

func TestLookupValuesShowsSymbols(t *testing.T) {
	r := newRegistry(t)
	field := models.Field{
		LookupValues: []models.LookupValue{
			{ID: 1, Name: "Oak", Symbol: "oak.png"},
			{ID: 2, Name: "Ash"},
		},
	}

	out, err := r.Render("lookupvalues", field)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "symbol: oak.png") {
		t.Errorf("expected symbol annotation, got %q", out)
	}
	if strings.Contains(out, "Ash  [symbol") {
		t.Errorf("value without symbol must not show one, got %q", out)
	}
}

func TestUserGroupUsersEmptyPlaceholder(t *testing.T) {
	r := newRegistry(t)

	out, err := r.Render("usergroupusers", models.UserGroup{Name: "Editors"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "No users have been assigned") {
		t.Errorf("expected placeholder, got %q", out)
	}
}

func TestUsersTypeAwayHeaders(t *testing.T) {
	r := newRegistry(t)

	out, err := r.Render("userstypeaway", []models.User{{ID: 1, DisplayName: "Oliver"}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "Click on item to add user") {
		t.Errorf("expected non-empty header, got %q", out)
	}

	out, err = r.Render("userstypeaway", []models.User{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "No records matched your query") {
		t.Errorf("expected empty header, got %q", out)
	}
}

func TestFieldSelectIncludesCreatedAt(t *testing.T) {
	r := newRegistry(t)
	category := models.Category{
		Name: "Trees",
		Fields: []models.Field{
			{Key: "count", Name: "Count", Type: models.NumericField},
		},
	}

	out, err := r.Render("fieldselect", category)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "created_at") {
		t.Errorf("expected created_at entry, got %q", out)
	}
	if !strings.Contains(out, "count - Count (NumericField)") {
		t.Errorf("expected field entry, got %q", out)
	}
}
