package filter

import (
	"net/url"
	"slices"
	"testing"
)

func TestFromValues_Empty(t *testing.T) {
	r := FromValues(url.Values{})
	if !r.IsEmpty() {
		t.Error("expected empty request")
	}
	if r.Exact() {
		t.Error("exact must default to false")
	}
}

func TestFromValues_ExactAloneIsEmpty(t *testing.T) {
	r := FromValues(url.Values{"exact": {"1"}})
	if !r.Exact() {
		t.Error("expected exact")
	}
	if !r.IsEmpty() {
		t.Error("exact alone must not count as a constraint")
	}
}

func TestFromValues_TextTrimmedAndKeysCaseInsensitive(t *testing.T) {
	r := FromValues(url.Values{"Company_Name": {"  Acme  "}, "city": {""}})
	if got := r.Text(CompanyName); got != "Acme" {
		t.Errorf("company_name = %q, want Acme", got)
	}
	if got := r.Text(City); got != "" {
		t.Errorf("blank city must be dropped, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"CA,NY"}, []string{"CA", "NY"}},
		{[]string{"CA; NY ;", "ca"}, []string{"CA", "NY"}},
		{[]string{" , ;"}, nil},
		{[]string{"TX", "WA"}, []string{"TX", "WA"}},
	}
	for _, tt := range tests {
		got := SplitList(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromValues_Lists(t *testing.T) {
	r := FromValues(url.Values{"state_code": {"CA", "NY;ca"}})
	if got := r.List(StateCode); !slices.Equal(got, []string{"CA", "NY"}) {
		t.Errorf("state_code = %q", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,000", 1000, true},
		{"$2500.5", 2500.5, true},
		{" 15 ", 15, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromValues_InvalidRangeSkipped(t *testing.T) {
	r := FromValues(url.Values{"employees_min": {"lots"}, "employees_max": {""}, "revenue_max": {"1e6"}})
	if !r.Range(Employees).IsEmpty() {
		t.Error("invalid employees range must be skipped")
	}
	rev := r.Range(Revenue)
	if rev.Min != nil || rev.Max == nil || *rev.Max != 1e6 {
		t.Errorf("revenue range = %+v", rev)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		upper bool
		want  string
	}{
		{"2023-04-05", false, "2023-04-05"},
		{"2023-04", false, "2023-04-01"},
		{"2023-04", true, "2023-04-30"},
		{"2024", true, "2024-12-31"},
		{"2024-02-10T12:00:00Z", false, "2024-02-10"},
		{"04/05/2023", false, "2023-04-05"},
		{"yesterday", false, ""},
		{"", true, ""},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.in, tt.upper); got != tt.want {
			t.Errorf("ParseDate(%q, %v) = %q, want %q", tt.in, tt.upper, got, tt.want)
		}
	}
}

func TestParseTriState(t *testing.T) {
	tests := map[string]TriState{
		"any": Any, "": Any, "maybe": Any,
		"Y": Yes, "yes": Yes, "true": Yes,
		"N": No, "no": No, "0": No,
	}
	for in, want := range tests {
		if got := ParseTriState(in); got != want {
			t.Errorf("ParseTriState(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromMap_Coercion(t *testing.T) {
	r := FromMap(map[string]any{
		"state_code":    []any{"CA", "NY"},
		"employees_min": float64(50),
		"exact":         true,
		"has_email":     "Y",
		"city":          map[string]any{"nested": "ignored"},
		"unknown":       "x",
	})
	if !r.Exact() {
		t.Error("expected exact from bool")
	}
	if got := r.List(StateCode); !slices.Equal(got, []string{"CA", "NY"}) {
		t.Errorf("state_code = %q", got)
	}
	if rg := r.Range(Employees); rg.Min == nil || *rg.Min != 50 {
		t.Errorf("employees range = %+v", rg)
	}
	if r.Flag(HasEmail) != Yes {
		t.Error("expected has_email = Yes")
	}
	if r.Text(City) != "" {
		t.Error("object value must be ignored")
	}
}

func TestKeys(t *testing.T) {
	r := FromValues(url.Values{"q": {"acme"}, "state_code": {"CA"}, "job_start_from": {"2020"}})
	want := []string{"job_start", "q", "state_code"}
	if got := r.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %q, want %q", got, want)
	}
}
