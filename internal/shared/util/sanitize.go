package util

// SanitizeObjectKey replaces every rune outside [A-Za-z0-9_-] with an
// underscore, producing a storage-safe object key segment.
func SanitizeObjectKey(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
