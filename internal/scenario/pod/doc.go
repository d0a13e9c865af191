// Package pod implements the pod disruption scenario: delete a slice of the
// pods behind a selector and verify the owning controller reschedules them
// within the recovery budget.
package pod
