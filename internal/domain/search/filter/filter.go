package filter

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Free-text parameters.
const (
	Name        = "name"
	FirstName   = "first_name"
	LastName    = "last_name"
	CompanyName = "company_name"
	City        = "city"
	Zip         = "zip"
	Industry    = "industry"
	JobTitle    = "job_title"
	Website     = "website"
)

// Multi-value list parameters.
const (
	StateCode = "state_code"
	Country   = "country"
	JobTitles = "job_titles"
	Skills    = "skills"
	Domains   = "domains"
)

// Contact parameters.
const (
	Email = "email"
	Phone = "phone"
)

// Numeric range parameters; each accepts _min and _max suffixes.
const (
	YearsExperience = "years_experience"
	Employees       = "employees"
	Revenue         = "revenue"
)

// Date range parameters.
const (
	JobStartFrom = "job_start_from"
	JobStartTo   = "job_start_to"
)

// Tri-state parameters.
const (
	HasEmail      = "has_email"
	HasPhone      = "has_phone"
	HasLinkedIn   = "has_linkedin"
	HasWebsite    = "has_website"
	EmailVerified = "email_verified"
	DecisionMaker = "decision_maker"
)

// Control parameters.
const (
	Exact = "exact"
	Query = "q"
)

// TextParams lists free-text parameters in the order clauses are emitted.
var TextParams = []string{Name, FirstName, LastName, CompanyName, City, Zip, Industry, JobTitle}

// ListParams lists multi-value parameters in the order clauses are emitted.
var ListParams = []string{StateCode, Country, JobTitles, Skills, Domains}

// RangeParams lists numeric range parameters.
var RangeParams = []string{YearsExperience, Employees, Revenue}

// PresenceParams are tri-state flags checked with exists queries.
var PresenceParams = []string{HasEmail, HasPhone, HasLinkedIn, HasWebsite}

// FlagParams are tri-state flags matched with term queries.
var FlagParams = []string{EmailVerified, DecisionMaker}

// TriState is a filter restricted to any/yes/no.
type TriState int

const (
	// Any leaves the attribute unconstrained.
	Any TriState = iota
	// Yes requires the attribute.
	Yes
	// No excludes the attribute.
	No
)

// Range is a numeric range with optional inclusive bounds.
type Range struct {
	Min *float64
	Max *float64
}

// IsEmpty reports whether neither bound is set.
func (r Range) IsEmpty() bool { return r.Min == nil && r.Max == nil }

// DateRange holds inclusive yyyy-mm-dd bounds; empty strings are unbounded.
type DateRange struct {
	From string
	To   string
}

// IsEmpty reports whether neither bound is set.
func (d DateRange) IsEmpty() bool { return d.From == "" && d.To == "" }

// Request is the parsed, lenient form of the caller's flat filter parameters.
// Unknown keys and unparseable values are dropped; parsing never fails.
type Request struct {
	exact    bool
	query    string
	text     map[string]string
	lists    map[string][]string
	email    string
	phone    string
	website  string
	ranges   map[string]Range
	jobStart DateRange
	flags    map[string]TriState
}

// FromValues parses URL query values.
func FromValues(v url.Values) Request {
	return parse(map[string][]string(v))
}

// FromMap parses a decoded JSON object. Scalars, arrays and nested
// values are coerced to strings; anything else is ignored.
func FromMap(m map[string]any) Request {
	raw := make(map[string][]string, len(m))
	for k, v := range m {
		raw[k] = coerce(v)
	}
	return parse(raw)
}

func parse(raw map[string][]string) Request {
	vals := make(map[string][]string, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		vals[key] = append(vals[key], v...)
	}
	first := func(key string) string {
		for _, v := range vals[key] {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
		return ""
	}

	r := Request{
		exact:   parseBool(first(Exact)),
		query:   first(Query),
		text:    make(map[string]string),
		lists:   make(map[string][]string),
		email:   first(Email),
		phone:   first(Phone),
		website: first(Website),
		ranges:  make(map[string]Range),
		flags:   make(map[string]TriState),
	}

	for _, p := range TextParams {
		if s := first(p); s != "" {
			r.text[p] = s
		}
	}
	for _, p := range ListParams {
		if items := SplitList(vals[p]); len(items) > 0 {
			r.lists[p] = items
		}
	}
	for _, p := range RangeParams {
		rg := Range{}
		if f, ok := ParseNumber(first(p + "_min")); ok {
			rg.Min = &f
		}
		if f, ok := ParseNumber(first(p + "_max")); ok {
			rg.Max = &f
		}
		if !rg.IsEmpty() {
			r.ranges[p] = rg
		}
	}
	r.jobStart = DateRange{
		From: ParseDate(first(JobStartFrom), false),
		To:   ParseDate(first(JobStartTo), true),
	}
	for _, p := range append(append([]string{}, PresenceParams...), FlagParams...) {
		if ts := ParseTriState(first(p)); ts != Any {
			r.flags[p] = ts
		}
	}
	return r
}

// Exact reports whether exact matching was requested.
func (r Request) Exact() bool { return r.exact }

// Query returns the global free-form term.
func (r Request) Query() string { return r.query }

// Text returns the free-text value for param.
func (r Request) Text(param string) string { return r.text[param] }

// List returns the tokens of a multi-value param.
func (r Request) List(param string) []string { return r.lists[param] }

// Email returns the raw email filter.
func (r Request) Email() string { return r.email }

// Phone returns the raw phone filter.
func (r Request) Phone() string { return r.phone }

// Website returns the raw website filter.
func (r Request) Website() string { return r.website }

// Range returns the numeric range for param.
func (r Request) Range(param string) Range { return r.ranges[param] }

// JobStart returns the job start date range.
func (r Request) JobStart() DateRange { return r.jobStart }

// Flag returns the tri-state value of param.
func (r Request) Flag(param string) TriState { return r.flags[param] }

// IsEmpty reports whether no constraint survived parsing. Exact alone is not a constraint.
func (r Request) IsEmpty() bool {
	return r.query == "" && len(r.text) == 0 && len(r.lists) == 0 &&
		r.email == "" && r.phone == "" && r.website == "" &&
		len(r.ranges) == 0 && r.jobStart.IsEmpty() && len(r.flags) == 0
}

// SplitList splits comma/semicolon delimited values into trimmed tokens,
// dropping blanks and case-insensitive duplicates.
func SplitList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, tok := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			key := strings.ToLower(tok)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

// ParseNumber parses a loosely formatted number ("1,000", "$2500", " 15 ").
func ParseNumber(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "$", "", " ", "", "_", "").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "01/02/2006", "2006-01", "2006"}

// ParseDate normalizes a date to yyyy-mm-dd. Partial dates expand to the
// start of the period, or to its end when upper is set. Invalid input yields "".
func ParseDate(s string, upper bool) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if upper {
			switch layout {
			case "2006":
				t = t.AddDate(1, 0, -1)
			case "2006-01":
				t = t.AddDate(0, 1, -1)
			}
		}
		return t.Format("2006-01-02")
	}
	return ""
}

// ParseTriState maps Y/N style input; anything unrecognized is Any.
func ParseTriState(s string) TriState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return Yes
	case "n", "no", "false", "0":
		return No
	default:
		return Any
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func coerce(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case bool:
		return []string{strconv.FormatBool(t)}
	case float64:
		return []string{strconv.FormatFloat(t, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(t)}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, coerce(item)...)
		}
		return out
	case map[string]any:
		// {"min": 1, "max": 5} style objects are not part of the vocabulary.
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}

// Keys returns the parameter names that carry a constraint, sorted. Used for logging.
func (r Request) Keys() []string {
	var keys []string
	for k := range r.text {
		keys = append(keys, k)
	}
	for k := range r.lists {
		keys = append(keys, k)
	}
	for k := range r.ranges {
		keys = append(keys, k)
	}
	for k := range r.flags {
		keys = append(keys, k)
	}
	for k, v := range map[string]string{Query: r.query, Email: r.email, Phone: r.phone, Website: r.website} {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if !r.jobStart.IsEmpty() {
		keys = append(keys, "job_start")
	}
	sort.Strings(keys)
	return keys
}
