package field

// Attribute is a logical lead attribute with the canonical field names it is stored under.
// Candidates are listed in resolution priority.
type Attribute struct {
	Name       string
	Candidates []string
}

// Lead attributes. Person attributes lead with the linked group, company attributes with merged.
var (
	FullName = Attribute{"full_name", []string{
		"linked.full_name", "linked.Full_name", "linked.name", "merged.full_name", "merged.contact_name",
	}}
	FirstName = Attribute{"first_name", []string{
		"linked.first_name", "linked.First_name", "merged.first_name",
	}}
	LastName = Attribute{"last_name", []string{
		"linked.last_name", "linked.Last_name", "merged.last_name",
	}}
	JobTitle = Attribute{"job_title", []string{
		"linked.job_title", "linked.Job_title", "linked.title", "merged.title", "merged.job_title",
	}}
	Email = Attribute{"email", []string{
		"linked.email", "linked.work_email", "linked.personal_emails", "merged.email", "merged.Email",
	}}
	Phone = Attribute{"phone", []string{
		"linked.phone", "linked.mobile_phone", "linked.phone_numbers",
		"merged.phone", "merged.Phone", "merged.company_phone",
	}}
	LinkedIn = Attribute{"linkedin_url", []string{
		"linked.linkedin_url", "linked.LinkedIn_url", "merged.linkedin_url",
	}}
	CompanyName = Attribute{"company_name", []string{
		"merged.normalized_company_name", "merged.company_name", "merged.Company",
		"linked.job_company_name", "linked.company_name",
	}}
	Website = Attribute{"website", []string{
		"merged.website", "merged.Website", "merged.domain", "merged.company_domain",
		"linked.job_company_website",
	}}
	Industry = Attribute{"industry", []string{
		"merged.industry", "merged.Industry", "linked.job_company_industry", "linked.industry",
	}}
	Employees = Attribute{"employees", []string{
		"merged.employees", "merged.employee_count", "merged.Employees", "linked.job_company_size",
	}}
	Revenue = Attribute{"revenue", []string{
		"merged.revenue", "merged.annual_revenue", "merged.Revenue",
	}}
	City = Attribute{"city", []string{
		"merged.city", "merged.City", "linked.location_locality", "linked.city",
	}}
	State = Attribute{"state_code", []string{
		"merged.state_code", "merged.state", "merged.State", "linked.location_region", "linked.state_code",
	}}
	Country = Attribute{"country", []string{
		"merged.country", "merged.Country", "linked.location_country", "linked.country",
	}}
	Zip = Attribute{"zip", []string{
		"merged.zip", "merged.Zip", "merged.postal_code", "linked.location_postal_code",
	}}
	Skills = Attribute{"skills", []string{
		"linked.skills", "linked.Skills",
	}}
	YearsExperience = Attribute{"years_experience", []string{
		"linked.inferred_years_experience", "linked.years_experience",
	}}
	JobStartDate = Attribute{"job_start_date", []string{
		"linked.job_start_date", "linked.Job_start_date", "linked.job_last_updated",
	}}
	EmailVerified = Attribute{"email_verified", []string{
		"linked.email_verified", "merged.email_verified",
	}}
	DecisionMaker = Attribute{"decision_maker", []string{
		"linked.decision_maker", "linked.is_decision_maker",
	}}
	ID = Attribute{"id", []string{
		"es_id", "linked_id", "merged_id",
	}}
)

// GlobalSearch is the fixed high-value attribute set the free-form q term runs against.
var GlobalSearch = []Attribute{FullName, CompanyName, Email, Website, JobTitle}
