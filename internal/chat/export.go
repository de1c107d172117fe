package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNothingToExport is returned when the transcript has no messages.
var ErrNothingToExport = errors.New("nothing to export")

// exportRule separates the header and every pair of messages.
var exportRule = strings.Repeat("=", 50)

const exportTitle = "DocuMind Enterprise - Conversation Export"

// exportedLayout matches a US locale date-time, e.g. "10/18/2026, 3:04:05 PM".
const exportedLayout = "1/2/2006, 3:04:05 PM"

// Export is a rendered transcript ready to be offered as a download.
type Export struct {
	FileName string
	Text     string
}

// BuildExport serializes msgs in display order behind a metadata header.
func BuildExport(msgs []Message, totalQuestions int, now time.Time) (*Export, error) {
	if len(msgs) == 0 {
		return nil, ErrNothingToExport
	}

	entries := make([]string, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, fmt.Sprintf("[%s] %s:\n%s", FormatTime(m.Timestamp), exportLabel(m.Role), m.Text))
	}

	var b strings.Builder
	b.WriteString(exportTitle + "\n")
	fmt.Fprintf(&b, "Exported: %s\n", now.Format(exportedLayout))
	fmt.Fprintf(&b, "Total Questions: %d\n\n", totalQuestions)
	b.WriteString(exportRule + "\n\n")
	b.WriteString(strings.Join(entries, "\n\n"+exportRule+"\n\n"))

	return &Export{
		FileName: ExportFileName(now),
		Text:     b.String(),
	}, nil
}

// ExportFileName is "documind-export-<unix millis>.txt".
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("documind-export-%d.txt", now.UnixMilli())
}

func exportLabel(r Role) string {
	if r == RoleUser {
		return "User"
	}
	return "DocuMind"
}
