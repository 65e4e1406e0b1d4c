package codec

// IsSpace reports whether c separates tokens: space, \t, \n, \v, \f, \r.
func IsSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

// SkipSpace returns b without its leading whitespace.
func SkipSpace(b []byte) []byte {
	i := 0
	for i < len(b) && IsSpace(b[i]) {
		i++
	}
	return b[i:]
}

// TokenEnd returns the index of the first whitespace byte in b, or -1.
func TokenEnd(b []byte) int {
	for i := 0; i < len(b); i++ {
		if IsSpace(b[i]) {
			return i
		}
	}
	return -1
}

// LeadingToken returns the first whitespace-delimited run of bytes in line.
// The result aliases line and is empty when line holds only whitespace.
func LeadingToken(line []byte) []byte {
	line = SkipSpace(line)
	if j := TokenEnd(line); j >= 0 {
		return line[:j]
	}
	return line
}
