package runeio

// CaretForm computes the ^-escaped printable form of a C0/C1 control rune,
// e.g. "^C" for ETX or "^[" for ESC; an empty string means r isn't one of
// those.
func CaretForm(r rune) string {
	if r < 0x20 || r == 0x7f {
		return "^" + string(r^0x40)
	} else if 0x80 <= r && r <= 0x9f {
		return "^[" + string(r^0xc0)
	}
	return ""
}
