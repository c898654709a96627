package model

// IntegrityStatus is the outcome of a self-verification check.
type IntegrityStatus string

const (
	IntegritySecure     IntegrityStatus = "secure"
	IntegrityWarning    IntegrityStatus = "warning"
	IntegrityDanger     IntegrityStatus = "danger"
	IntegrityUnverified IntegrityStatus = "unverified"
)

// IntegrityResult is returned by the integrity verifier. It is never an error.
type IntegrityResult struct {
	Status     IntegrityStatus `json:"status"`
	LocalHash  string          `json:"local_hash,omitempty"`
	RemoteHash string          `json:"remote_hash,omitempty"`
	Message    string          `json:"message"`
}
