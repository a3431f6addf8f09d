package registry

// NextName derives the next candidate from a taken name: a name that does not
// end in a digit gets "1" appended, otherwise the trailing decimal number is
// incremented. The empty name becomes "_".
//
//	NextName("a")  == "a1"
//	NextName("a1") == "a2"
//	NextName("a9") == "a10"
func NextName(name string) string {
	if name == "" {
		return "_"
	}
	end := len(name)
	start := end
	for start > 0 && isDigit(name[start-1]) {
		start--
	}
	if start == end {
		return name + "1"
	}
	return name[:start] + increment(name[start:])
}

// increment adds one to a decimal digit string without overflowing.
func increment(digits string) string {
	buf := []byte(digits)
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] < '9' {
			buf[i]++
			return string(buf)
		}
		buf[i] = '0'
	}
	return "1" + string(buf)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Identifier turns s into a valid identifier of the generated language,
// lowering the first letter: "StringVar" becomes "stringVar", "radio button"
// becomes "radio_button".
func Identifier(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			if len(out) == 0 {
				c += 'a' - 'A'
			}
			out = append(out, c)
		case isDigit(c):
			if len(out) == 0 {
				out = append(out, '_')
			}
			out = append(out, c)
		default:
			if len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
		}
	}
	return string(out)
}
