// Package allocator keeps three integer proportions summing to Total while
// one of the two editable slots is changed at a time.
package allocator

const (
	// Total is the fixed sum of the three proportions.
	Total = 100
	// FreeSlot is derived from the other two and never edited directly.
	FreeSlot = 2
	// Slots is the number of proportions in a Triple.
	Slots = 3
)

// Triple holds the proportions of the three activity slots.
type Triple [Slots]int

// Default is the triple of a fresh form.
var Default = Triple{33, 33, 34}

// FromProportions builds a Triple from stored proportions. A malformed
// triple is returned as an error, never repaired.
func FromProportions(p1, p2, p3 int) (Triple, error) {
	t := Triple{p1, p2, p3}
	if err := t.Validate(); err != nil {
		return Triple{}, err
	}
	return t, nil
}

// Sum returns v0 + v1 + v2.
func (t Triple) Sum() int {
	return t[0] + t[1] + t[2]
}

// Validate reports whether every value lies in [0, Total] and the values
// add up to Total.
func (t Triple) Validate() error {
	for i, v := range t {
		if v < 0 || v > Total {
			return &TripleError{Triple: t, Slot: i}
		}
	}
	if t.Sum() != Total {
		return &TripleError{Triple: t, Slot: -1}
	}
	return nil
}

// Editable reports whether slot can be set directly.
func Editable(slot int) bool {
	return slot == 0 || slot == 1
}

// ApplyEdit sets slot to value and redistributes the other two slots so the
// result still sums to Total. The free slot absorbs the change first; the
// other editable slot only moves once the free slot is pinned at 0. The
// edited slot always keeps value, clamped to [0, Total].
func ApplyEdit(t Triple, slot, value int) (Triple, error) {
	if err := t.Validate(); err != nil {
		return Triple{}, err
	}
	if !Editable(slot) {
		return Triple{}, &InvalidSlotError{Slot: slot}
	}

	value = clamp(value)
	other := t[1-slot]

	free := Total - value - other
	if free < 0 {
		other = clamp(other + free)
	}

	var out Triple
	out[slot] = value
	out[1-slot] = other
	out[FreeSlot] = Total - value - other
	return out, nil
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > Total:
		return Total
	}
	return v
}
