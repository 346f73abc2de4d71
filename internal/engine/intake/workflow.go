// internal/engine/intake/workflow.go
package intake

import (
	"fmt"
	"regexp"
	"strings"

	"origination-workers/internal/engine/affordability"
	"origination-workers/internal/models"
)

// Intake steps in order. A draft can only advance one step at a time and
// only when the current step validates.
const (
	StepCategory    = 1
	StepDetails     = 2
	StepIncome      = 3
	StepBanking     = 4
	StepObligations = 5

	StepCount = 5
)

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodeBelowMinimum         = "BELOW_MINIMUM"
	CodeInvalidCategory      = "INVALID_CATEGORY"
)

// ValidationError is one field-level failure from step validation.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var compiledPatterns = map[string]*regexp.Regexp{
	ifscPattern:     regexp.MustCompile(ifscPattern),
	contactPattern:  regexp.MustCompile(contactPattern),
	`^[0-9]{9,18}$`: regexp.MustCompile(`^[0-9]{9,18}$`),
}

// Workflow is the five-step intake state machine. It has value semantics:
// every transition returns a new Workflow and leaves the receiver untouched,
// so abandoning a session discards all of its state.
type Workflow struct {
	Draft Draft
	Step  int

	// MinimumIncome is the eligibility criterion floor for the selected
	// category, used to build the income step schema.
	MinimumIncome float64
}

// NewWorkflow starts an intake session at the category step.
func NewWorkflow(applicationID, loanType string) Workflow {
	return Workflow{
		Draft: Draft{ApplicationID: applicationID, LoanType: loanType},
		Step:  StepCategory,
	}
}

// ReloadDraft reconstructs a workflow from persisted state, for example a
// portal session resumed on another device. Reloading alone never touches
// the draft; auto-population only fires on a forward transition out of the
// details step.
func ReloadDraft(draft Draft, step int, minimumIncome float64) Workflow {
	if step < StepCategory {
		step = StepCategory
	}
	if step > StepObligations {
		step = StepObligations
	}
	return Workflow{
		Draft:         draft,
		Step:          step,
		MinimumIncome: minimumIncome,
	}
}

// SelectCategory sets the employment category and resets every
// category-dependent field. Switching from STUDENT to SALARIED must not
// leave guardian fields behind, so the whole variant is replaced.
func (w Workflow) SelectCategory(category models.EmploymentCategory, minimumIncome float64) (Workflow, error) {
	if !category.IsValid() {
		return w, ValidationError{
			Field:   "employmentCategory",
			Code:    CodeInvalidCategory,
			Message: fmt.Sprintf("unknown employment category %q", category),
		}
	}
	w.Draft = w.Draft.withCategory(category)
	w.MinimumIncome = minimumIncome
	return w, nil
}

// StepFields returns the field schema for a step given the current category.
// Step 1 has no fields; the category selection itself is the input.
func (w Workflow) StepFields(step int) []FieldSpec {
	switch step {
	case StepDetails:
		return RequiredFieldsFor(w.Draft.Category)
	case StepIncome:
		return incomeFields(w.Draft.Category, w.MinimumIncome)
	case StepBanking:
		return bankFields()
	case StepObligations:
		return obligationFields()
	default:
		return nil
	}
}

// ValidateStep checks one step against its field schema and returns every
// failure, not just the first.
func (w Workflow) ValidateStep(step int) []ValidationError {
	if step == StepCategory {
		if !w.Draft.Category.IsValid() {
			return []ValidationError{{
				Field:   "employmentCategory",
				Code:    CodeRequiredFieldMissing,
				Message: "employment category must be selected",
			}}
		}
		return nil
	}

	var errs []ValidationError
	for _, spec := range w.StepFields(step) {
		if err := w.validateField(spec); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// IsStepValid reports whether a step passes validation.
func (w Workflow) IsStepValid(step int) bool {
	return len(w.ValidateStep(step)) == 0
}

func (w Workflow) validateField(spec FieldSpec) *ValidationError {
	value := w.Draft.fieldValue(spec.Key)

	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			if spec.Required {
				return &ValidationError{
					Field:   spec.Key,
					Code:    CodeRequiredFieldMissing,
					Message: fmt.Sprintf("%s is required", spec.Label),
				}
			}
			return nil
		}
		if spec.Kind == FieldPattern {
			re, ok := compiledPatterns[spec.Pattern]
			if !ok {
				re = regexp.MustCompile(spec.Pattern)
			}
			if !re.MatchString(trimmed) {
				return &ValidationError{
					Field:   spec.Key,
					Code:    CodeInvalidFormat,
					Message: fmt.Sprintf("%s has an invalid format", spec.Label),
				}
			}
		}
	case float64:
		if spec.Min != nil && v < *spec.Min {
			code := CodeBelowMinimum
			msg := fmt.Sprintf("%s must be at least %g", spec.Label, *spec.Min)
			if spec.Required && v == 0 && *spec.Min > 0 {
				code = CodeRequiredFieldMissing
				msg = fmt.Sprintf("%s is required", spec.Label)
			}
			return &ValidationError{Field: spec.Key, Code: code, Message: msg}
		}
	}
	return nil
}

// NextStep advances the workflow one step. The transition is gated: the
// current step must validate. Every forward transition out of the details
// step triggers income auto-population.
func (w Workflow) NextStep() (Workflow, []ValidationError) {
	if w.Step >= StepObligations {
		return w, nil
	}
	if errs := w.ValidateStep(w.Step); len(errs) > 0 {
		return w, errs
	}
	if w.Step == StepDetails {
		w.Draft = w.populateIncome(w.Draft)
	}
	w.Step++
	return w, nil
}

// PreviousStep moves back one step unconditionally. Entered data is kept;
// back-navigation never re-runs auto-population.
func (w Workflow) PreviousStep() Workflow {
	if w.Step > StepCategory {
		w.Step--
	}
	return w
}

// populateIncome seeds the income step from category details so applicants
// do not retype figures already captured: guardian income for students,
// pension for retirees, declared average for freelancers. UNEMPLOYED is
// forced to zero. Runs on every forward pass out of the details step, so
// the seeded figure always tracks the source fields; idempotent while the
// source values are unchanged. Backward navigation never runs it.
func (w Workflow) populateIncome(d Draft) Draft {
	d.Income.IncomeSource = d.Category.IncomeSourceLabel()
	switch d.Category {
	case models.CategoryStudent:
		if d.Student != nil {
			d.Income.MonthlyIncome = d.Student.GuardianMonthlyIncome
		}
	case models.CategoryRetired:
		if d.Retired != nil {
			d.Income.MonthlyIncome = d.Retired.MonthlyPension
		}
	case models.CategoryFreelancer:
		if d.Freelancer != nil && d.Freelancer.AverageMonthlyIncome > 0 {
			d.Income.MonthlyIncome = d.Freelancer.AverageMonthlyIncome
		}
	case models.CategoryUnemployed:
		d.Income.MonthlyIncome = 0
	}
	return d
}

// FOIRPreview runs the affordability check against the draft with an
// estimated EMI for the requested loan. Advisory only; the authoritative
// FOIR comes from the portal during underwriting.
func (w Workflow) FOIRPreview(estimatedEMI float64) models.FOIRResult {
	return affordability.ComputeFOIR(w.Draft.TotalMonthlyIncome(), w.Draft.ExistingObligations(), estimatedEMI)
}
