package lead

import (
	"encoding/json"
	"testing"
)

func TestHeader(t *testing.T) {
	h := Header()
	if len(h) != 19 {
		t.Fatalf("len = %d, want 19", len(h))
	}
	if h[0] != "ID" || h[8] != "Company" || h[18] != "Job Start Date" {
		t.Errorf("unexpected header: %v", h)
	}
}

func TestRow_ResolvesFromNormalizedRecord(t *testing.T) {
	r := Normalize(map[string]any{
		DocIDKey:               "doc-1",
		"merged_Company":       "Acme",
		"merged_employees":     float64(12000000),
		"linked_First_name":    "Ada",
		"linked_job_title":     "CEO",
		"linked_skills":        []any{"go", " ", "sql"},
		"merged_website":       "acme.io",
		"linked_email":         "",
		"merged_email":         "info@acme.io",
		"linked_phone_numbers": []any{map[string]any{"number": "+15550100"}},
	})
	row := Row(r)
	want := map[string]string{
		"ID":           "doc-1",
		"First Name":   "Ada",
		"Job Title":    "CEO",
		"Company":      "Acme",
		"Employees":    "12000000",
		"Skills":       "go; sql",
		"Website":      "acme.io",
		"Email":        "info@acme.io",
		"Phone":        "+15550100",
		"LinkedIn URL": "",
	}
	for i, h := range Header() {
		w, ok := want[h]
		if !ok {
			continue
		}
		if row[i] != w {
			t.Errorf("%s = %q, want %q", h, row[i], w)
		}
	}
}

func TestResolve_PersonPrefersLinked(t *testing.T) {
	r := Normalize(map[string]any{"linked_job_title": "CTO", "merged_title": "Owner"})
	d := Display(r)
	if d["job_title"] != "CTO" {
		t.Errorf("job_title = %q, want CTO", d["job_title"])
	}
}

func TestResolve_CompanyPrefersMerged(t *testing.T) {
	r := Normalize(map[string]any{"linked_company_name": "Old Co", "merged_company_name": "New Co"})
	if got := Display(r)["company"]; got != "New Co" {
		t.Errorf("company = %q, want New Co", got)
	}
}

func TestResolve_TopLevelFallback(t *testing.T) {
	r := Normalize(map[string]any{"city": "Denver"})
	if got := Display(r)["city"]; got != "Denver" {
		t.Errorf("city = %q, want Denver", got)
	}
}

func TestResolve_IDFallsBackToCrossRef(t *testing.T) {
	r := Normalize(map[string]any{"linked_id": "L9"})
	if got := Display(r)["id"]; got != "L9" {
		t.Errorf("id = %q, want L9", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  x ", "x"},
		{true, "true"},
		{float64(1e21), "1000000000000000000000"},
		{2.5, "2.5"},
		{json.Number("3e3"), "3000"},
		{42, "42"},
		{int64(7), "7"},
		{[]string{"a", "", "b"}, "a; b"},
		{map[string]any{"foo": "bar"}, ""},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
