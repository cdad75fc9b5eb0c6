package state

import "fmt"

// DuplicateApplicationError is returned when a revision is recorded as applied twice
type DuplicateApplicationError struct {
	ID string
}

func (e *DuplicateApplicationError) Error() string {
	return fmt.Sprintf("revision %s is already recorded as applied", e.ID)
}

// Code returns the stable error code used by the API layers
func (e *DuplicateApplicationError) Code() string {
	return "DUPLICATE_APPLICATION"
}

// NotAppliedError is returned when reverting a revision that is not recorded
type NotAppliedError struct {
	ID string
}

func (e *NotAppliedError) Error() string {
	return fmt.Sprintf("revision %s is not recorded as applied", e.ID)
}

// Code returns the stable error code used by the API layers
func (e *NotAppliedError) Code() string {
	return "NOT_APPLIED"
}
