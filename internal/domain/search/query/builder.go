package query

import (
	"strings"

	"github.com/kailas-cloud/leadex/internal/domain/search/field"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
)

const (
	textSlop   = 2
	globalSlop = 1
	boostExact = 2.0
)

var textAttrs = map[string]field.Attribute{
	filter.Name:        field.FullName,
	filter.FirstName:   field.FirstName,
	filter.LastName:    field.LastName,
	filter.CompanyName: field.CompanyName,
	filter.City:        field.City,
	filter.Zip:         field.Zip,
	filter.Industry:    field.Industry,
	filter.JobTitle:    field.JobTitle,
}

var listAttrs = map[string]field.Attribute{
	filter.StateCode: field.State,
	filter.Country:   field.Country,
	filter.JobTitles: field.JobTitle,
	filter.Skills:    field.Skills,
	filter.Domains:   field.Website,
}

var rangeAttrs = map[string]field.Attribute{
	filter.YearsExperience: field.YearsExperience,
	filter.Employees:       field.Employees,
	filter.Revenue:         field.Revenue,
}

var presenceAttrs = map[string]field.Attribute{
	filter.HasEmail:    field.Email,
	filter.HasPhone:    field.Phone,
	filter.HasLinkedIn: field.LinkedIn,
	filter.HasWebsite:  field.Website,
}

var flagAttrs = map[string]field.Attribute{
	filter.EmailVerified: field.EmailVerified,
	filter.DecisionMaker: field.DecisionMaker,
}

// textTypes can receive term/phrase/wildcard clauses.
var textTypes = map[string]struct{}{
	"text": {}, "keyword": {}, "match_only_text": {}, "wildcard": {},
	"constant_keyword": {}, "search_as_you_type": {},
}

// Builder turns a filter.Request into a bool query, consulting the index
// mapping to pick compatible candidate fields. A Builder is immutable.
type Builder struct {
	mapping field.Mapping
}

// NewBuilder creates a Builder. A nil mapping means no type information.
func NewBuilder(mapping field.Mapping) *Builder {
	return &Builder{mapping: mapping}
}

type boolQuery struct {
	must   []Clause
	filter []Clause
	should []Clause
}

func (q *boolQuery) addMust(c Clause) {
	if c != nil {
		q.must = append(q.must, c)
	}
}

func (q *boolQuery) addFilter(c Clause) {
	if c != nil {
		q.filter = append(q.filter, c)
	}
}

func (q *boolQuery) addShould(c Clause) {
	if c != nil {
		q.should = append(q.should, c)
	}
}

// Build composes the query. It never fails: values that cannot be turned
// into clauses are skipped, and an empty result matches everything.
func (b *Builder) Build(req filter.Request) Clause {
	q := &boolQuery{}

	for _, p := range filter.TextParams {
		if v := req.Text(p); v != "" {
			b.freeText(q, textAttrs[p], v, req.Exact())
		}
	}
	if v := NormalizeDomain(req.Website()); v != "" {
		b.domainText(q, v, req.Exact())
	}
	for _, p := range filter.ListParams {
		for _, tok := range req.List(p) {
			q.addFilter(b.listToken(listAttrs[p], tok, p == filter.Domains))
		}
	}
	if v := NormalizeEmail(req.Email()); v != "" {
		b.email(q, v, req.Exact())
	}
	if variants := PhoneVariants(req.Phone()); len(variants) > 0 {
		b.phone(q, variants, req.Exact())
	}
	for _, p := range filter.RangeParams {
		if rg := req.Range(p); !rg.IsEmpty() {
			q.addFilter(b.numericRange(rangeAttrs[p], rg))
		}
	}
	if dr := req.JobStart(); !dr.IsEmpty() {
		q.addFilter(b.dateRange(field.JobStartDate, dr))
	}
	for _, p := range filter.PresenceParams {
		q.addFilter(b.presence(presenceAttrs[p], req.Flag(p)))
	}
	for _, p := range filter.FlagParams {
		q.addFilter(b.flag(flagAttrs[p], req.Flag(p)))
	}
	if v := strings.TrimSpace(req.Query()); v != "" {
		q.addMust(b.global(v))
	}

	return q.clause()
}

func (q *boolQuery) clause() Clause {
	if len(q.must) == 0 && len(q.filter) == 0 && len(q.should) == 0 {
		return MatchAll()
	}
	body := Clause{}
	if len(q.must) > 0 {
		body["must"] = q.must
	}
	if len(q.filter) > 0 {
		body["filter"] = q.filter
	}
	if len(q.should) > 0 {
		body["should"] = q.should
	}
	return Clause{"bool": body}
}

func (b *Builder) freeText(q *boolQuery, attr field.Attribute, value string, exact bool) {
	cands := field.Expand(attr.Candidates)
	lower := strings.ToLower(value)

	if exact {
		q.addFilter(AnyOf(terms(b.keywordFields(cands), lower)))
		return
	}
	q.addMust(AnyOf(phrases(b.textFields(cands), value, textSlop)))
	if boost := AnyOf(terms(b.keywordFields(cands), lower)); boost != nil {
		q.addShould(Clause{"constant_score": Clause{"filter": boost, "boost": boostExact}})
	}
}

func (b *Builder) domainText(q *boolQuery, domain string, exact bool) {
	cands := field.Expand(field.Website.Candidates)
	kw := b.keywordFields(cands)
	if exact {
		q.addFilter(AnyOf(terms(kw, domain)))
		return
	}
	clauses := terms(kw, domain)
	clauses = append(clauses, phrases(b.textFields(cands), domain, 0)...)
	clauses = append(clauses, wildcards(kw, domain)...)
	q.addMust(AnyOf(clauses))
}

func (b *Builder) listToken(attr field.Attribute, token string, domain bool) Clause {
	if domain {
		token = NormalizeDomain(token)
		if token == "" {
			return nil
		}
	}
	cands := field.Expand(attr.Candidates)
	kw := b.keywordFields(cands)

	clauses := terms(kw, token)
	clauses = append(clauses, phrases(b.textFields(cands), token, textSlop)...)
	if domain {
		clauses = append(clauses, wildcards(kw, token)...)
	}
	group := Dedupe(clauses)
	if len(group) == 0 {
		return nil
	}
	return Clause{"bool": Clause{"should": group, "minimum_should_match": 1}}
}

func (b *Builder) email(q *boolQuery, email string, exact bool) {
	cands := field.Expand(field.Email.Candidates)
	kw := b.keywordFields(cands)
	if exact {
		q.addFilter(AnyOf(terms(kw, email)))
		return
	}
	clauses := terms(kw, email)
	clauses = append(clauses, phrases(b.textFields(cands), email, 0)...)
	clauses = append(clauses, wildcards(kw, email)...)
	q.addMust(AnyOf(clauses))
}

func (b *Builder) phone(q *boolQuery, variants []string, exact bool) {
	cands := field.Expand(field.Phone.Candidates)
	kw := b.keywordFields(cands)
	text := b.textFields(cands)

	var clauses []Clause
	for _, v := range variants {
		clauses = append(clauses, terms(kw, v)...)
		clauses = append(clauses, phrases(text, v, 0)...)
	}
	if !exact {
		// The bare digits are contained in the "+" variant, one wildcard covers both.
		clauses = append(clauses, wildcards(kw, variants[0])...)
	}
	if exact {
		q.addFilter(AnyOf(clauses))
		return
	}
	q.addMust(AnyOf(clauses))
}

func (b *Builder) numericRange(attr field.Attribute, rg filter.Range) Clause {
	var gte, lte any
	if rg.Min != nil {
		gte = *rg.Min
	}
	if rg.Max != nil {
		lte = *rg.Max
	}
	var clauses []Clause
	for _, f := range b.numericFields(attr) {
		clauses = append(clauses, Range(f, gte, lte))
	}
	return AnyOf(clauses)
}

func (b *Builder) dateRange(attr field.Attribute, dr filter.DateRange) Clause {
	var gte, lte any
	if dr.From != "" {
		gte = dr.From
	}
	if dr.To != "" {
		lte = dr.To
	}
	return Range(b.dateField(attr), gte, lte)
}

func (b *Builder) presence(attr field.Attribute, ts filter.TriState) Clause {
	if ts == filter.Any {
		return nil
	}
	var clauses []Clause
	for _, f := range b.existingFields(attr) {
		clauses = append(clauses, Exists(f))
	}
	if ts == filter.Yes {
		return AnyOf(clauses)
	}
	return NoneOf(clauses)
}

func (b *Builder) flag(attr field.Attribute, ts filter.TriState) Clause {
	if ts == filter.Any {
		return nil
	}
	yes := ts == filter.Yes
	cands := field.Expand(attr.Candidates)

	var clauses []Clause
	for _, f := range cands {
		if t, ok := b.mapping.Type(f); ok && t == "boolean" {
			clauses = append(clauses, Term(f, yes))
		}
	}
	value := "N"
	if yes {
		value = "Y"
	}
	clauses = append(clauses, terms(b.keywordFields(cands), value)...)
	return AnyOf(clauses)
}

func (b *Builder) global(value string) Clause {
	var cands []string
	for _, attr := range field.GlobalSearch {
		cands = append(cands, attr.Candidates...)
	}
	cands = field.Expand(cands)

	clauses := terms(b.keywordFields(cands), strings.ToLower(value))
	clauses = append(clauses, phrases(b.textFields(cands), value, globalSlop)...)
	group := Dedupe(clauses)
	if len(group) == 0 {
		return nil
	}
	return Clause{"bool": Clause{"should": group, "minimum_should_match": 1}}
}

// textFields returns analyzed-text candidates. With type information only
// mapped text-like fields qualify; numeric and other typed fields never do.
func (b *Builder) textFields(cands []string) []string {
	excluded := b.nonText(cands)
	var mapped, unmapped []string
	for _, f := range cands {
		if field.IsKeywordVariant(f) {
			continue
		}
		t, ok := b.mapping.Type(f)
		if !ok {
			if _, skip := excluded[f]; !skip {
				unmapped = append(unmapped, f)
			}
			continue
		}
		if _, textual := textTypes[t]; textual {
			mapped = append(mapped, f)
		}
	}
	if b.mapping.IsEmpty() {
		return unmapped
	}
	if len(mapped) > 0 || anyMapped(b.mapping, cands) {
		return mapped
	}
	return unmapped
}

// keywordFields returns exact-match candidates: fields mapped as keyword,
// falling back to .keyword sub-fields of candidates not known to be non-text.
func (b *Builder) keywordFields(cands []string) []string {
	var out []string
	if !b.mapping.IsEmpty() {
		for _, f := range cands {
			if b.mapping.IsKeyword(f) {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	excluded := b.nonText(cands)
	for _, f := range cands {
		if !field.IsKeywordVariant(f) {
			continue
		}
		if _, skip := excluded[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}

// nonText returns every spelling of candidates mapped to a non-text type.
// A number stored as "merged.employees" is a number under its other spellings too.
func (b *Builder) nonText(cands []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range cands {
		t, ok := b.mapping.Type(f)
		if !ok || field.IsKeywordVariant(f) {
			continue
		}
		if _, textual := textTypes[t]; textual {
			continue
		}
		for _, v := range field.Expand([]string{f}) {
			out[v] = struct{}{}
		}
	}
	return out
}

// numericFields returns numeric-mapped candidates, or the canonical names without type information.
func (b *Builder) numericFields(attr field.Attribute) []string {
	if b.mapping.IsEmpty() {
		return attr.Candidates
	}
	var out []string
	for _, f := range field.Expand(attr.Candidates) {
		if b.mapping.IsNumeric(f) {
			out = append(out, f)
		}
	}
	return out
}

// dateField picks the best-effort date field: a date-mapped candidate,
// then any mapped non-text candidate, then the first canonical name.
func (b *Builder) dateField(attr field.Attribute) string {
	cands := field.Expand(attr.Candidates)
	for _, f := range cands {
		if t, ok := b.mapping.Type(f); ok && (t == "date" || t == "date_nanos") {
			return f
		}
	}
	for _, f := range cands {
		if t, ok := b.mapping.Type(f); ok && t != "text" && !field.IsNumericType(t) {
			return f
		}
	}
	return attr.Candidates[0]
}

// existingFields returns base candidates worth an exists check.
func (b *Builder) existingFields(attr field.Attribute) []string {
	if b.mapping.IsEmpty() {
		return attr.Candidates
	}
	var out []string
	for _, f := range field.Expand(attr.Candidates) {
		if !field.IsKeywordVariant(f) && b.mapping.Has(f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return attr.Candidates
	}
	return out
}

func anyMapped(m field.Mapping, cands []string) bool {
	for _, f := range cands {
		if m.Has(f) {
			return true
		}
	}
	return false
}

func terms(fields []string, value string) []Clause {
	out := make([]Clause, 0, len(fields))
	for _, f := range fields {
		out = append(out, Term(f, value))
	}
	return out
}

func phrases(fields []string, value string, slop int) []Clause {
	out := make([]Clause, 0, len(fields))
	for _, f := range fields {
		out = append(out, MatchPhrase(f, value, slop))
	}
	return out
}

func wildcards(fields []string, value string) []Clause {
	out := make([]Clause, 0, len(fields))
	for _, f := range fields {
		out = append(out, Wildcard(f, value))
	}
	return out
}
