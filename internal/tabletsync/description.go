package tabletsync

import (
	"net/url"
	"strings"
)

// DecodeDescription turns the free text tail of a PUT path back into text.
// Tablets send a literal \n for new lines and query-escape the rest, with
// + standing for a space. Text that does not unescape is kept as sent.
func DecodeDescription(raw string) string {
	raw = strings.TrimSuffix(raw, "/")
	raw = strings.ReplaceAll(raw, `\n`, "\n")

	text, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return text
}
