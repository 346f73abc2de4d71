// internal/engine/affordability/thresholds.go
package affordability

// FOIR classification thresholds (inclusive upper bounds, percentage points).
// This is the single source of truth: the intake preview, the proposal
// validator and the calculate-foir worker all import these constants, so the
// local computation cannot drift from the authoritative contract.
const (
	FOIRExcellentMax  = 40.0
	FOIRGoodMax       = 55.0
	FOIRAcceptableMax = 70.0
)
