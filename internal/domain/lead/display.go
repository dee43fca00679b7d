package lead

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/leadex/internal/domain/search/field"
)

// ListSeparator joins multi-valued attributes in display form.
const ListSeparator = "; "

// Column is one display/export column.
type Column struct {
	Key    string
	Header string
	Attr   field.Attribute
}

// Columns is the fixed, ordered export layout. The display object of a
// search row uses the same columns keyed by Key.
var Columns = []Column{
	{"id", "ID", field.ID},
	{"first_name", "First Name", field.FirstName},
	{"last_name", "Last Name", field.LastName},
	{"full_name", "Full Name", field.FullName},
	{"job_title", "Job Title", field.JobTitle},
	{"email", "Email", field.Email},
	{"phone", "Phone", field.Phone},
	{"linkedin_url", "LinkedIn URL", field.LinkedIn},
	{"company", "Company", field.CompanyName},
	{"website", "Website", field.Website},
	{"industry", "Industry", field.Industry},
	{"employees", "Employees", field.Employees},
	{"revenue", "Revenue", field.Revenue},
	{"city", "City", field.City},
	{"state", "State", field.State},
	{"country", "Country", field.Country},
	{"zip", "Zip", field.Zip},
	{"skills", "Skills", field.Skills},
	{"job_start_date", "Job Start Date", field.JobStartDate},
}

// Header returns the export header row.
func Header() []string {
	h := make([]string, len(Columns))
	for i, c := range Columns {
		h[i] = c.Header
	}
	return h
}

// Row resolves every column of r in Columns order.
func Row(r Record) []string {
	row := make([]string, len(Columns))
	for i, c := range Columns {
		row[i] = Resolve(r, c)
	}
	return row
}

// Display resolves every column of r keyed by Column.Key.
func Display(r Record) map[string]string {
	d := make(map[string]string, len(Columns))
	for _, c := range Columns {
		d[c.Key] = Resolve(r, c)
	}
	return d
}

// Resolve returns the first non-empty value for the column. Candidates are
// tried in catalog order inside their groups, then the attribute name at the
// top level. The id column prefers the engine document id.
func Resolve(r Record, c Column) string {
	if c.Key == "id" {
		return r.ID()
	}
	for _, cand := range c.Attr.Candidates {
		if s := Format(lookup(r, cand)); s != "" {
			return s
		}
	}
	return Format(r[c.Attr.Name])
}

// lookup reads a dotted candidate from a normalized record. Group-relative
// keys are also tried lowercased since sources disagree on casing.
func lookup(r Record, name string) any {
	g, key, nested := strings.Cut(name, ".")
	if !nested {
		return r[name]
	}
	m := r.Group(g)
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok && Format(v) != "" {
		return v
	}
	if lower := strings.ToLower(key); lower != key {
		return m[lower]
	}
	return nil
}

// Format renders a source value for display. Lists are joined with
// ListSeparator and numbers never use exponent notation.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return formatFloat(f)
		}
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := Format(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ListSeparator)
	case []string:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ListSeparator)
	case map[string]any:
		for _, k := range []string{"address", "number", "url", "name", "value"} {
			if s := Format(t[k]); s != "" {
				return s
			}
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
