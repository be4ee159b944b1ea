package allocator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every precondition failure of ApplyEdit.
var ErrInvalidInput = errors.New("invalid allocator input")

// InvalidSlotError is returned when the edited slot is the free slot or
// does not exist.
type InvalidSlotError struct {
	Slot int
}

func (e *InvalidSlotError) Error() string {
	if e.Slot == FreeSlot {
		return fmt.Sprintf("slot %d is derived and cannot be edited", e.Slot)
	}
	return fmt.Sprintf("slot %d is out of range", e.Slot)
}

func (e *InvalidSlotError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TripleError is returned when an incoming triple breaks the bounds or the
// sum. Slot is -1 for a sum violation.
type TripleError struct {
	Triple Triple
	Slot   int
}

func (e *TripleError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("triple %v sums to %d, want %d", e.Triple, e.Triple.Sum(), Total)
	}
	return fmt.Sprintf("triple %v: slot %d value %d outside [0, %d]", e.Triple, e.Slot, e.Triple[e.Slot], Total)
}

func (e *TripleError) Is(target error) bool {
	return target == ErrInvalidInput
}
