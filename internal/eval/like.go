package eval

// Like reports whether s matches the SQL LIKE pattern. % matches any run of
// characters (including none) and _ matches exactly one character.
// Matching is case-sensitive and works on runes.
func Like(s, pattern string) bool {
	str := []rune(s)
	pat := []rune(pattern)

	si, pi := 0, 0
	// Position of the last % seen and the string index it was tried at.
	star, mark := -1, 0

	for si < len(str) {
		switch {
		case pi < len(pat) && (pat[pi] == '_' || (pat[pi] != '%' && pat[pi] == str[si])):
			si++
			pi++
		case pi < len(pat) && pat[pi] == '%':
			star = pi
			mark = si
			pi++
		case star >= 0:
			// Let the last % absorb one more character.
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}

	for pi < len(pat) && pat[pi] == '%' {
		pi++
	}
	return pi == len(pat)
}
