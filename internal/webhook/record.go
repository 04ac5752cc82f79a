package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	recordRule = "========================="
	recordEnd  = "===========END==========="
)

// FormatRecord renders the alert log entry for payload received at receivedAt.
func FormatRecord(receivedAt time.Time, payload Payload) string {
	body := "null"
	if payload.Document != nil {
		if indented, err := json.MarshalIndent(payload.Document, "", "    "); err == nil {
			body = string(indented)
		}
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(recordRule + "\n")
	fmt.Fprintf(&b, "Log for: %s\n", receivedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "Alert Name: %s\n", payload.Details.Name)
	fmt.Fprintf(&b, "School: %s\n", payload.Details.Site)
	fmt.Fprintf(&b, "Ticket: #%s\n", payload.Details.Ticket)
	b.WriteString(recordRule + "\n")
	b.WriteString(body + "\n")
	b.WriteString(recordEnd + "\n")

	return b.String()
}
