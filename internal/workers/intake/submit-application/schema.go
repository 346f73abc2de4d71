// internal/workers/intake/submit-application/schema.go
package submitapplication

// submissionSchema is the structural contract a frozen intake payload must
// meet before it is persisted. Field-level business validation already ran
// in the intake engine; this schema guards against malformed payloads that
// bypassed it.
var submissionSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"applicationId", "loanType", "employmentCategory",
		"draft", "monthlyIncome", "existingObligations", "monthlyExpenses",
	},
	"properties": map[string]interface{}{
		"applicationId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"loanType": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"employmentCategory": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{
				"SALARIED", "SELF_EMPLOYED", "BUSINESS_OWNER", "PROFESSIONAL",
				"FREELANCER", "RETIRED", "STUDENT", "UNEMPLOYED",
			},
		},
		"draft": map[string]interface{}{
			"type": "object",
		},
		"monthlyIncome": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"existingObligations": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"monthlyExpenses": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
	},
}
