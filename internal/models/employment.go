// internal/models/employment.go
package models

// EmploymentCategory is one of the eight mutually exclusive applicant
// classifications that drive the intake field schema.
type EmploymentCategory string

const (
	CategorySalaried      EmploymentCategory = "SALARIED"
	CategorySelfEmployed  EmploymentCategory = "SELF_EMPLOYED"
	CategoryBusinessOwner EmploymentCategory = "BUSINESS_OWNER"
	CategoryProfessional  EmploymentCategory = "PROFESSIONAL"
	CategoryFreelancer    EmploymentCategory = "FREELANCER"
	CategoryRetired       EmploymentCategory = "RETIRED"
	CategoryStudent       EmploymentCategory = "STUDENT"
	CategoryUnemployed    EmploymentCategory = "UNEMPLOYED"
)

// AllCategories lists every category in presentation order.
var AllCategories = []EmploymentCategory{
	CategorySalaried,
	CategorySelfEmployed,
	CategoryBusinessOwner,
	CategoryProfessional,
	CategoryFreelancer,
	CategoryRetired,
	CategoryStudent,
	CategoryUnemployed,
}

// IsValid reports whether c is one of the eight known categories.
func (c EmploymentCategory) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IncomeSourceLabel returns the income-source label shown in the UI and used
// by intake auto-population.
func (c EmploymentCategory) IncomeSourceLabel() string {
	switch c {
	case CategorySalaried:
		return "Salary"
	case CategorySelfEmployed:
		return "Business Income"
	case CategoryBusinessOwner:
		return "Business Profits"
	case CategoryProfessional:
		return "Professional Fees"
	case CategoryFreelancer:
		return "Freelance Income"
	case CategoryRetired:
		return "Pension"
	case CategoryStudent:
		return "Guardian Support"
	case CategoryUnemployed:
		return "Other"
	default:
		return "Other"
	}
}

// IncomeSourceFixed reports whether the income-source label is forced for the
// category (read-only in the income step).
func (c EmploymentCategory) IncomeSourceFixed() bool {
	switch c {
	case CategorySalaried, CategorySelfEmployed, CategoryBusinessOwner:
		return true
	default:
		return false
	}
}
