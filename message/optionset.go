package message

import "sort"

// absOption is one authoring-time entry: an absolute option number paired
// with its value, plus the insertion sequence used to break ties between
// equal numbers (spec.md §4.2: "Tie-breaking: options with equal numbers
// retain insertion order").
type absOption struct {
	number   uint32
	value    []byte
	sequence int
}

// OptionSet is the authoring-time option list: callers Insert options by
// absolute number in any order, and Normalize converts the set into the
// sorted, delta-encoded wire form a Message carries. This is the
// "configuration capability" from spec.md §9 resolved in favor of storing
// absolute numbers internally and delta-normalizing only at serialize
// time, matching the Rust source's ReqCore/RespCore authoring list.
type OptionSet struct {
	entries []absOption
}

// Insert appends an option by its absolute number. It does not
// deduplicate: inserting the same number twice yields two repeated
// options on the wire, as spec.md §3 requires ("duplicate numbers
// permitted").
func (s *OptionSet) Insert(number uint32, value []byte) {
	s.entries = append(s.entries, absOption{number: number, value: value, sequence: len(s.entries)})
}

// Len reports how many options have been inserted.
func (s *OptionSet) Len() int {
	return len(s.entries)
}

// Get returns the values of every option inserted under number, in
// insertion order.
func (s *OptionSet) Get(number uint32) [][]byte {
	var out [][]byte
	for _, e := range s.entries {
		if e.number == number {
			out = append(out, e.value)
		}
	}
	return out
}

// InsertAll appends every entry of other into s, preserving other's
// relative insertion order. Used to combine option sets built separately
// (e.g. Uri-* options and caller-supplied ones) before a single
// Normalize call, so the combined set sorts correctly regardless of how
// its absolute numbers interleave.
func (s *OptionSet) InsertAll(other OptionSet) {
	for _, e := range other.entries {
		s.Insert(e.number, e.value)
	}
}

// Normalize sorts the authoring entries by absolute number (stable, so
// equal numbers retain insertion order) and rewrites each into a
// delta-encoded Option: delta = number - previousAbsoluteNumber (0 for
// the first entry). This is spec.md §4.2's normalize operation.
func (s *OptionSet) Normalize() (Options, error) {
	sorted := make([]absOption, len(s.entries))
	copy(sorted, s.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].number < sorted[j].number
	})

	out := make(Options, 0, len(sorted))
	var prev uint32
	for _, e := range sorted {
		if e.number > maxOptionValue || uint32(len(e.value)) > maxOptionValue {
			return nil, newSerializeError(ValueTooLong)
		}
		out = append(out, Option{Delta: e.number - prev, Value: e.value})
		prev = e.number
	}
	return out, nil
}
