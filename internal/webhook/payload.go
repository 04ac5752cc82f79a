package webhook

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// siteExpression pulls the site label out of a value string such as
// "[ var='B0' labels={School=North High} value=1 ]".
var siteExpression = regexp.MustCompile(`{School=(.*?)}`)

// Payload is a decoded webhook body kept for the alert log.
type Payload struct {
	// Details are the extracted fields.
	Details domain.Details
	// Document is the decoded JSON body, nil when the body was not JSON.
	Document any
}

// Parse decodes body and extracts the alert name, site and ticket of the first alert.
func Parse(body []byte) Payload {
	result := Payload{Details: domain.MissingDetails()}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return result
	}

	result.Document = document

	if name, ok := lookupString(document, "alerts", 0, "labels", "alertname"); ok {
		result.Details.Name = name
	}

	if valueString, ok := lookupString(document, "alerts", 0, "valueString"); ok {
		if match := siteExpression.FindStringSubmatch(valueString); match != nil {
			result.Details.Site = match[1]
		}
	}

	if ticket, ok := lookupString(document, "alerts", 0, "values", "B0"); ok {
		result.Details.Ticket = ticket
	}

	return result
}

// lookupString walks path through nested objects (string keys) and arrays (int indexes)
// and renders the scalar found at the end.
func lookupString(document any, path ...any) (string, bool) {
	current := document

	for _, step := range path {
		switch key := step.(type) {
		case string:
			object, ok := current.(map[string]any)
			if !ok {
				return "", false
			}

			if current, ok = object[key]; !ok {
				return "", false
			}
		case int:
			array, ok := current.([]any)
			if !ok || key < 0 || key >= len(array) {
				return "", false
			}

			current = array[key]
		default:
			return "", false
		}
	}

	switch value := current.(type) {
	case string:
		return value, true
	case json.Number:
		// Literal text: 48213 stays 48213 and 48213.0 stays 48213.0.
		return value.String(), true
	case bool:
		return strconv.FormatBool(value), true
	default:
		return "", false
	}
}
