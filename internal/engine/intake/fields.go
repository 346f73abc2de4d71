// internal/engine/intake/fields.go
package intake

import "origination-workers/internal/models"

// FieldKind tells the renderer and the validator how to treat a field.
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldDate    FieldKind = "date"
	FieldNumber  FieldKind = "number"
	FieldPattern FieldKind = "pattern"
)

// FieldSpec describes one intake field. The same specs drive both UI
// rendering metadata and step validation, so a category switch can never
// leave orphaned validators behind: the active spec set is always derived
// from the current category.
type FieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Step     int       `json:"step"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Pattern  string    `json:"pattern,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	ReadOnly bool      `json:"readOnly,omitempty"`
}

// IFSC-style bank branch codes: four letters, a zero, six alphanumerics.
const ifscPattern = `^[A-Z]{4}0[A-Z0-9]{6}$`

const contactPattern = `^[0-9]{10}$`

func minOf(v float64) *float64 { return &v }

// RequiredFieldsFor returns the step-2 field schema for a category. The
// eight categories map to disjoint field sets; exactly one set is active at
// a time.
func RequiredFieldsFor(category models.EmploymentCategory) []FieldSpec {
	switch category {
	case models.CategorySalaried, models.CategorySelfEmployed, models.CategoryBusinessOwner:
		return employmentFields(false)
	case models.CategoryProfessional:
		return employmentFields(true)
	case models.CategoryFreelancer:
		return []FieldSpec{
			{Key: "freelanceType", Label: "Freelance Type", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "freelancingSince", Label: "Freelancing Since", Step: StepDetails, Kind: FieldDate, Required: true},
			{Key: "primaryClients", Label: "Primary Clients", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "averageMonthlyIncome", Label: "Average Monthly Income", Step: StepDetails, Kind: FieldNumber, Min: minOf(0)},
		}
	case models.CategoryRetired:
		return []FieldSpec{
			{Key: "pensionType", Label: "Pension Type", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "pensionProvider", Label: "Pension Provider", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "monthlyPension", Label: "Monthly Pension Amount", Step: StepDetails, Kind: FieldNumber, Required: true, Min: minOf(1)},
			{Key: "retirementDate", Label: "Retirement Date", Step: StepDetails, Kind: FieldDate, Required: true},
			{Key: "previousEmployer", Label: "Previous Employer", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "previousDesignation", Label: "Previous Designation", Step: StepDetails, Kind: FieldText, Required: true},
		}
	case models.CategoryStudent:
		return []FieldSpec{
			{Key: "institution", Label: "Institution", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "course", Label: "Course", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "yearOfStudy", Label: "Year of Study", Step: StepDetails, Kind: FieldNumber, Required: true, Min: minOf(1)},
			{Key: "courseDurationYears", Label: "Course Duration (Years)", Step: StepDetails, Kind: FieldNumber, Required: true, Min: minOf(1)},
			{Key: "graduationYear", Label: "Graduation Year", Step: StepDetails, Kind: FieldNumber, Required: true, Min: minOf(1)},
			{Key: "guardianName", Label: "Guardian Name", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "guardianRelation", Label: "Guardian Relation", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "guardianOccupation", Label: "Guardian Occupation", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "guardianEmployer", Label: "Guardian Employer", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "guardianMonthlyIncome", Label: "Guardian Monthly Income", Step: StepDetails, Kind: FieldNumber, Required: true, Min: minOf(1)},
			{Key: "guardianContact", Label: "Guardian Contact", Step: StepDetails, Kind: FieldPattern, Required: true, Pattern: contactPattern},
		}
	case models.CategoryUnemployed:
		return []FieldSpec{
			{Key: "unemploymentReason", Label: "Unemployment Reason", Step: StepDetails, Kind: FieldText, Required: true},
			{Key: "currentIncomeSource", Label: "Current Income Source", Step: StepDetails, Kind: FieldText, Required: true},
		}
	default:
		return nil
	}
}

func employmentFields(professional bool) []FieldSpec {
	fields := []FieldSpec{
		{Key: "companyName", Label: "Company Name", Step: StepDetails, Kind: FieldText, Required: true},
		{Key: "jobTitle", Label: "Job Title", Step: StepDetails, Kind: FieldText, Required: true},
		{Key: "startDate", Label: "Start Date", Step: StepDetails, Kind: FieldDate, Required: true},
		{Key: "companyAddress", Label: "Company Address", Step: StepDetails, Kind: FieldText, Required: true},
	}
	if professional {
		fields = append(fields,
			FieldSpec{Key: "professionType", Label: "Profession Type", Step: StepDetails, Kind: FieldText, Required: true},
			FieldSpec{Key: "registrationNumber", Label: "Registration Number", Step: StepDetails, Kind: FieldText, Required: true},
			FieldSpec{Key: "registrationAuthority", Label: "Registration Authority", Step: StepDetails, Kind: FieldText, Required: true},
			FieldSpec{Key: "qualification", Label: "Qualification", Step: StepDetails, Kind: FieldText, Required: true},
		)
	}
	return fields
}

// incomeFields builds the step-3 schema. The floor is dynamic: UNEMPLOYED is
// the only category permitted zero income; every other category requires a
// strictly positive minimum (the eligibility criterion's minimum income when
// known).
func incomeFields(category models.EmploymentCategory, floor float64) []FieldSpec {
	incomeMin := floor
	if category == models.CategoryUnemployed {
		incomeMin = 0
	} else if incomeMin < 1 {
		incomeMin = 1
	}
	return []FieldSpec{
		{Key: "monthlyIncome", Label: "Monthly Income", Step: StepIncome, Kind: FieldNumber, Required: true, Min: minOf(incomeMin)},
		{Key: "additionalIncome", Label: "Additional Income", Step: StepIncome, Kind: FieldNumber, Min: minOf(0)},
		{Key: "incomeSource", Label: "Income Source", Step: StepIncome, Kind: FieldText, Required: true, ReadOnly: category.IncomeSourceFixed()},
	}
}

func bankFields() []FieldSpec {
	return []FieldSpec{
		{Key: "bankName", Label: "Bank Name", Step: StepBanking, Kind: FieldText, Required: true},
		{Key: "accountNumber", Label: "Account Number", Step: StepBanking, Kind: FieldPattern, Required: true, Pattern: `^[0-9]{9,18}$`},
		{Key: "ifscCode", Label: "IFSC Code", Step: StepBanking, Kind: FieldPattern, Required: true, Pattern: ifscPattern},
		{Key: "accountType", Label: "Account Type", Step: StepBanking, Kind: FieldText, Required: true},
		{Key: "branch", Label: "Branch", Step: StepBanking, Kind: FieldText, Required: true},
		{Key: "accountBalance", Label: "Account Balance", Step: StepBanking, Kind: FieldNumber, Required: true, Min: minOf(0)},
	}
}

func obligationFields() []FieldSpec {
	return []FieldSpec{
		{Key: "monthlyExpenses", Label: "Monthly Expenses", Step: StepObligations, Kind: FieldNumber, Required: true, Min: minOf(0)},
		{Key: "existingLoanEmi", Label: "Existing Loan EMI", Step: StepObligations, Kind: FieldNumber, Min: minOf(0)},
		{Key: "creditCardOutstanding", Label: "Credit Card Outstanding", Step: StepObligations, Kind: FieldNumber, Min: minOf(0)},
	}
}
