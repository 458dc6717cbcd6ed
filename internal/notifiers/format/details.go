package format

import "strings"

// DetailsList renders a semicolon-separated details string as a
// bulleted list for notification bodies. Empty input renders as "n/a"
// so alert templates never show a blank field.
func DetailsList(details string) string {
	items := strings.FieldsFunc(details, func(r rune) bool {
		return r == ';' || r == '\n'
	})
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, "- "+item)
	}
	if len(out) == 0 {
		return "n/a"
	}
	return strings.Join(out, "\n")
}
