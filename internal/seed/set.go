package seed

// codeSet tracks product codes already seen during an import.
type codeSet struct {
	codes map[string]struct{}
}

func newCodeSet(capacity int) *codeSet {
	return &codeSet{
		codes: make(map[string]struct{}, capacity),
	}
}

// Contains checks if a code exists in the set.
func (s *codeSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

// Add adds code to the set and reports whether it was new.
func (s *codeSet) Add(code string) bool {
	if s.Contains(code) {
		return false
	}
	s.codes[code] = struct{}{}
	return true
}

// Size returns the number of codes in the set.
func (s *codeSet) Size() int {
	return len(s.codes)
}
