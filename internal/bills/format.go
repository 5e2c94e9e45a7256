package bills

import (
	"fmt"
	"time"
)

// statusLabels maps stored statuses to their display labels. Unknown
// statuses pass through unchanged.
var statusLabels = map[string]string{
	"pending":  "En attente",
	"accepted": "Accepté",
	"refused":  "Refusé",
}

// monthLabels are the French month abbreviations used in display dates.
var monthLabels = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui",
	"Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// FormatStatus returns the display label for a bill status.
func FormatStatus(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// FormatDate renders an ISO date (YYYY-MM-DD) in short French form, e.g.
// "1 Avr. 23". It returns an error when the input is not a valid calendar
// date; callers decide what to render instead.
func FormatDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", fmt.Errorf("unparseable date %q: %w", raw, err)
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), monthLabels[t.Month()-1], t.Year()%100), nil
}
