package daily

import "unicode/utf16"

// hashString folds s into a non-negative integer. It iterates UTF-16 code
// units and wraps at 32 bits so the same key selects the same bias as the
// web client.
func hashString(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
