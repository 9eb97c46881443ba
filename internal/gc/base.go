package gc

// IsGC reports whether b is a strong base: G, C or the IUPAC code S,
// in either case.
func IsGC(b byte) bool {
	switch b {
	case 'G', 'C', 'S', 'g', 'c', 's':
		return true
	}
	return false
}

// IsSpace reports whether b is layout rather than sequence content.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
