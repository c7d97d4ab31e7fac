package protocol

import "bytes"

// CString interprets b as a NUL terminated string bounded by len(b).
// Bytes after the first NUL are ignored; without a NUL the whole slice is used.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}

	return string(b)
}
