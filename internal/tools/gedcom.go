package tools

import "strings"

// normalizeGedcom rewrites the line-break encodings accepted on the wire
// into plain newlines. Besides CRLF, the literal two-character sequence
// `\n` and the marker `%OA` are accepted, so GEDCOM text survives
// transports that cannot carry raw newlines.
func normalizeGedcom(gedcom string) string {
	r := strings.NewReplacer("\r\n", "\n", `\n`, "\n", "%OA", "\n")
	return r.Replace(gedcom)
}
