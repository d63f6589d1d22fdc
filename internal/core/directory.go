package core

// FindByCode returns the first school whose code equals code, ignoring
// case and surrounding whitespace.
func FindByCode(schools []School, code string) (School, bool) {
	want := normalizeCode(code)
	if want == "" {
		return School{}, false
	}

	for _, s := range schools {
		if normalizeCode(s.Code) == want {
			return s, true
		}
	}
	return School{}, false
}
