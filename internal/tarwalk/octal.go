package tarwalk

// ParseOctal decodes a fixed-width octal ASCII field from a TAR header.
// Leading spaces and NUL bytes are skipped, then octal digits accumulate
// until a space, NUL, or non-octal byte is hit. A blank or malformed field
// decodes to 0; permissive TAR readers treat those as zero-size rather
// than failing the archive.
func ParseOctal(field []byte) uint64 {
	i := 0
	for i < len(field) && (field[i] == ' ' || field[i] == 0) {
		i++
	}

	var v uint64
	for ; i < len(field); i++ {
		c := field[i]
		if c == ' ' || c == 0 {
			break
		}
		if c < '0' || c > '7' {
			break
		}
		v = v*8 + uint64(c-'0')
	}
	return v
}
