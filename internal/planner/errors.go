package planner

import "fmt"

// DataIntegrityError reports an inventory record whose remaining quantity
// exceeds its package total. The record must be corrected upstream; the
// aggregator never sums a record it cannot trust.
type DataIntegrityError struct {
	RecordID          string
	QuantityRemaining int
	QuantityTotal     int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("inventory record %s: remaining %d exceeds total %d",
		e.RecordID, e.QuantityRemaining, e.QuantityTotal)
}

// InvalidArgumentError reports a caller contract violation such as a
// negative quantity or rate. Never clamped silently.
type InvalidArgumentError struct {
	Field string
	Value float64
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s = %v", e.Field, e.Value)
}
