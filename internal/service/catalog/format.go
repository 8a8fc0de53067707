package catalog

import "fmt"

// FormatReply renders a lookup outcome into the user-facing reply text.
// Pure: the same result and query always produce the same text, and
// missing fields degrade to "n/a" instead of failing.
func FormatReply(res *Result, query string) string {
	if res == nil {
		return "OMDb error: empty"
	}
	if res.Failed() {
		reason := res.Error
		if reason == "" {
			reason = "Not found"
		}
		return fmt.Sprintf("OMDb: %s — %q", reason, query)
	}

	title := res.Title
	if title == "" {
		title = query
	}
	return fmt.Sprintf("“%s” — info:\nTitle: %s\nYear: %s\nType: %s\nIMDB: %s",
		title,
		title,
		orNA(res.Year),
		orNA(res.Type),
		orNA(res.IMDBRating),
	)
}

func orNA(v string) string {
	if v == "" {
		return "n/a"
	}
	return v
}
