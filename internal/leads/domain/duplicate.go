package domain

// Duplicate resolution states. Pending is the only non-terminal state; the
// two terminal states are final and mutually exclusive.
const (
	DuplicateStatusPending = "pendiente"
	DuplicateStatusMerged  = "fusionado"
	DuplicateStatusIgnored = "ignorado"
)

// IsTerminalDuplicateStatus reports whether the status admits no further
// transition.
func IsTerminalDuplicateStatus(status string) bool {
	return status == DuplicateStatusMerged || status == DuplicateStatusIgnored
}

// IsValidDuplicateStatus reports whether the status is one of the three
// workflow states.
func IsValidDuplicateStatus(status string) bool {
	return status == DuplicateStatusPending || IsTerminalDuplicateStatus(status)
}
