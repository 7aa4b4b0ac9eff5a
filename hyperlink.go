package xlreport

import "strings"

// HyperlinkValue represents a clickable hyperlink in a cell.
// Pasting it writes the display text and attaches the link.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// linkType returns "Location" for in-workbook targets like "#Sheet1!A1".
func (h HyperlinkValue) linkType() string {
	if strings.HasPrefix(h.URL, "#") || strings.Contains(h.URL, "!") && !strings.Contains(h.URL, "://") {
		return "Location"
	}
	return "External"
}

// Link creates a HyperlinkValue for pasting.
func Link(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}
