package models

// RejectReason identifies why the pipeline dropped a record.
type RejectReason string

// Terminal rejection reasons.
const (
	RejectInvalid   RejectReason = "invalid"
	RejectDuplicate RejectReason = "duplicate"
)

// Rejection is the diagnostic handed back to the caller when a record
// terminates in a rejected state instead of being emitted.
type Rejection struct {
	Reason        RejectReason `json:"reason"`
	MissingFields []string     `json:"missing_fields,omitempty"`
}
