// internal/engine/intake/draft.go
package intake

import "origination-workers/internal/models"

// EmploymentDetails is the step-2 variant shared by SALARIED, SELF_EMPLOYED,
// BUSINESS_OWNER and PROFESSIONAL. The registration fields only apply to
// PROFESSIONAL.
type EmploymentDetails struct {
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	StartDate      string `json:"startDate"`
	CompanyAddress string `json:"companyAddress"`

	ProfessionType        string `json:"professionType,omitempty"`
	RegistrationNumber    string `json:"registrationNumber,omitempty"`
	RegistrationAuthority string `json:"registrationAuthority,omitempty"`
	Qualification         string `json:"qualification,omitempty"`
}

type FreelancerDetails struct {
	FreelanceType        string  `json:"freelanceType"`
	FreelancingSince     string  `json:"freelancingSince"`
	PrimaryClients       string  `json:"primaryClients"`
	AverageMonthlyIncome float64 `json:"averageMonthlyIncome"`
}

type RetiredDetails struct {
	PensionType         string  `json:"pensionType"`
	PensionProvider     string  `json:"pensionProvider"`
	MonthlyPension      float64 `json:"monthlyPension"`
	RetirementDate      string  `json:"retirementDate"`
	PreviousEmployer    string  `json:"previousEmployer"`
	PreviousDesignation string  `json:"previousDesignation"`
}

type StudentDetails struct {
	Institution         string `json:"institution"`
	Course              string `json:"course"`
	YearOfStudy         int    `json:"yearOfStudy"`
	CourseDurationYears int    `json:"courseDurationYears"`
	GraduationYear      int    `json:"graduationYear"`

	GuardianName          string  `json:"guardianName"`
	GuardianRelation      string  `json:"guardianRelation"`
	GuardianOccupation    string  `json:"guardianOccupation"`
	GuardianEmployer      string  `json:"guardianEmployer"`
	GuardianMonthlyIncome float64 `json:"guardianMonthlyIncome"`
	GuardianContact       string  `json:"guardianContact"`
}

type UnemployedDetails struct {
	UnemploymentReason  string `json:"unemploymentReason"`
	CurrentIncomeSource string `json:"currentIncomeSource"`
}

type IncomeDetails struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	AdditionalIncome float64 `json:"additionalIncome"`
	IncomeSource     string  `json:"incomeSource"`
}

type BankDetails struct {
	BankName       string  `json:"bankName"`
	AccountNumber  string  `json:"accountNumber"`
	IFSCCode       string  `json:"ifscCode"`
	AccountType    string  `json:"accountType"`
	Branch         string  `json:"branch"`
	AccountBalance float64 `json:"accountBalance"`
}

type ObligationDetails struct {
	MonthlyExpenses       float64 `json:"monthlyExpenses"`
	ExistingLoanEMI       float64 `json:"existingLoanEmi"`
	CreditCardOutstanding float64 `json:"creditCardOutstanding"`
}

// Draft accumulates one application-in-progress. Exactly one of the five
// variant pointers is non-nil at any time; switching category replaces the
// whole variant rather than mutating shared fields. Transitions return a new
// Draft value, so a cancelled or abandoned session leaves nothing behind.
type Draft struct {
	ApplicationID string                    `json:"applicationId"`
	LoanType      string                    `json:"loanType"`
	Category      models.EmploymentCategory `json:"employmentCategory"`

	Employment *EmploymentDetails `json:"employment,omitempty"`
	Freelancer *FreelancerDetails `json:"freelancer,omitempty"`
	Retired    *RetiredDetails    `json:"retired,omitempty"`
	Student    *StudentDetails    `json:"student,omitempty"`
	Unemployed *UnemployedDetails `json:"unemployed,omitempty"`

	Income      IncomeDetails     `json:"income"`
	Bank        BankDetails       `json:"bank"`
	Obligations ObligationDetails `json:"obligations"`
}

// ExistingObligations is the step-5 output consumed by the FOIR preview:
// recurring EMI plus credit-card outstanding treated as a monthly obligation.
func (d Draft) ExistingObligations() float64 {
	return d.Obligations.ExistingLoanEMI + d.Obligations.CreditCardOutstanding
}

// TotalMonthlyIncome is declared income plus any additional income.
func (d Draft) TotalMonthlyIncome() float64 {
	return d.Income.MonthlyIncome + d.Income.AdditionalIncome
}

// withCategory returns a draft with the category variant reset. Destructive
// on purpose: selecting a category clears every other variant's fields so no
// stale required field can block a later step.
func (d Draft) withCategory(category models.EmploymentCategory) Draft {
	d.Category = category
	d.Employment = nil
	d.Freelancer = nil
	d.Retired = nil
	d.Student = nil
	d.Unemployed = nil

	switch category {
	case models.CategorySalaried, models.CategorySelfEmployed, models.CategoryBusinessOwner, models.CategoryProfessional:
		d.Employment = &EmploymentDetails{}
	case models.CategoryFreelancer:
		d.Freelancer = &FreelancerDetails{}
	case models.CategoryRetired:
		d.Retired = &RetiredDetails{}
	case models.CategoryStudent:
		d.Student = &StudentDetails{}
	case models.CategoryUnemployed:
		d.Unemployed = &UnemployedDetails{}
	}

	d.Income = IncomeDetails{IncomeSource: category.IncomeSourceLabel()}
	return d
}

// fieldValue resolves a FieldSpec key against the draft. Strings come back
// as string, numerics as float64.
func (d Draft) fieldValue(key string) interface{} {
	switch key {
	case "companyName", "jobTitle", "startDate", "companyAddress",
		"professionType", "registrationNumber", "registrationAuthority", "qualification":
		if d.Employment == nil {
			return ""
		}
		switch key {
		case "companyName":
			return d.Employment.CompanyName
		case "jobTitle":
			return d.Employment.JobTitle
		case "startDate":
			return d.Employment.StartDate
		case "companyAddress":
			return d.Employment.CompanyAddress
		case "professionType":
			return d.Employment.ProfessionType
		case "registrationNumber":
			return d.Employment.RegistrationNumber
		case "registrationAuthority":
			return d.Employment.RegistrationAuthority
		default:
			return d.Employment.Qualification
		}
	case "freelanceType", "freelancingSince", "primaryClients", "averageMonthlyIncome":
		if d.Freelancer == nil {
			return ""
		}
		switch key {
		case "freelanceType":
			return d.Freelancer.FreelanceType
		case "freelancingSince":
			return d.Freelancer.FreelancingSince
		case "primaryClients":
			return d.Freelancer.PrimaryClients
		default:
			return d.Freelancer.AverageMonthlyIncome
		}
	case "pensionType", "pensionProvider", "monthlyPension", "retirementDate", "previousEmployer", "previousDesignation":
		if d.Retired == nil {
			return ""
		}
		switch key {
		case "pensionType":
			return d.Retired.PensionType
		case "pensionProvider":
			return d.Retired.PensionProvider
		case "monthlyPension":
			return d.Retired.MonthlyPension
		case "retirementDate":
			return d.Retired.RetirementDate
		case "previousEmployer":
			return d.Retired.PreviousEmployer
		default:
			return d.Retired.PreviousDesignation
		}
	case "institution", "course", "yearOfStudy", "courseDurationYears", "graduationYear",
		"guardianName", "guardianRelation", "guardianOccupation", "guardianEmployer",
		"guardianMonthlyIncome", "guardianContact":
		if d.Student == nil {
			return ""
		}
		switch key {
		case "institution":
			return d.Student.Institution
		case "course":
			return d.Student.Course
		case "yearOfStudy":
			return float64(d.Student.YearOfStudy)
		case "courseDurationYears":
			return float64(d.Student.CourseDurationYears)
		case "graduationYear":
			return float64(d.Student.GraduationYear)
		case "guardianName":
			return d.Student.GuardianName
		case "guardianRelation":
			return d.Student.GuardianRelation
		case "guardianOccupation":
			return d.Student.GuardianOccupation
		case "guardianEmployer":
			return d.Student.GuardianEmployer
		case "guardianMonthlyIncome":
			return d.Student.GuardianMonthlyIncome
		default:
			return d.Student.GuardianContact
		}
	case "unemploymentReason", "currentIncomeSource":
		if d.Unemployed == nil {
			return ""
		}
		if key == "unemploymentReason" {
			return d.Unemployed.UnemploymentReason
		}
		return d.Unemployed.CurrentIncomeSource
	case "monthlyIncome":
		return d.Income.MonthlyIncome
	case "additionalIncome":
		return d.Income.AdditionalIncome
	case "incomeSource":
		return d.Income.IncomeSource
	case "bankName":
		return d.Bank.BankName
	case "accountNumber":
		return d.Bank.AccountNumber
	case "ifscCode":
		return d.Bank.IFSCCode
	case "accountType":
		return d.Bank.AccountType
	case "branch":
		return d.Bank.Branch
	case "accountBalance":
		return d.Bank.AccountBalance
	case "monthlyExpenses":
		return d.Obligations.MonthlyExpenses
	case "existingLoanEmi":
		return d.Obligations.ExistingLoanEMI
	case "creditCardOutstanding":
		return d.Obligations.CreditCardOutstanding
	default:
		return ""
	}
}
