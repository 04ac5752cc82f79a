package webhook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// fullPayload is a trimmed vendor webhook body with every field present.
const fullPayload = `{
	"status": "firing",
	"alerts": [{
		"labels": {"alertname": "P1 Ticket"},
		"valueString": "[ var='B0' labels={School=North High} value=48213 ]",
		"values": {"B0": 48213}
	}]
}`

// TestParse_Full extracts every field from a complete payload.
func TestParse_Full(t *testing.T) {
	t.Parallel()

	payload := Parse([]byte(fullPayload))

	require.Equal(t, domain.Details{Name: "P1 Ticket", Site: "North High", Ticket: "48213"}, payload.Details)
	require.NotNil(t, payload.Document)
}

// TestParse_TicketLiteral renders numeric tickets exactly as sent.
func TestParse_TicketLiteral(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`48213`:   "48213",
		`48213.0`: "48213.0",
		`48213.5`: "48213.5",
		`"48213"`: "48213",
	}

	for literal, want := range cases {
		t.Run(literal, func(t *testing.T) {
			t.Parallel()

			payload := Parse([]byte(`{"alerts":[{"labels":{"alertname":"A"},"values":{"B0":` + literal + `}}]}`))
			require.Equal(t, want, payload.Details.Ticket)
		})
	}
}

// TestParse_MissingFields falls back field by field.
func TestParse_MissingFields(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body string
		want domain.Details
	}{
		"missing alertname": {
			body: `{"alerts":[{"labels":{},"valueString":"{School=East}","values":{"B0":"7"}}]}`,
			want: domain.Details{Name: domain.MissingData, Site: "East", Ticket: "7"},
		},
		"labels wrong type": {
			body: `{"alerts":[{"labels":"oops","values":{"B0":7}}]}`,
			want: domain.Details{Name: domain.MissingData, Site: domain.MissingData, Ticket: "7"},
		},
		"no site in value string": {
			body: `{"alerts":[{"labels":{"alertname":"A"},"valueString":"value=1"}]}`,
			want: domain.Details{Name: "A", Site: domain.MissingData, Ticket: domain.MissingData},
		},
		"empty alerts": {
			body: `{"alerts":[]}`,
			want: domain.MissingDetails(),
		},
		"not an object": {
			body: `[1,2,3]`,
			want: domain.MissingDetails(),
		},
		"not json": {
			body: `alert!`,
			want: domain.MissingDetails(),
		},
		"empty body": {
			body: ``,
			want: domain.MissingDetails(),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, Parse([]byte(tc.body)).Details)
		})
	}
}

// TestFormatRecord checks the alert log layout.
func TestFormatRecord(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	record := FormatRecord(at, Parse([]byte(fullPayload)))

	require.Contains(t, record, "Log for: 2026-10-15T08:30:00Z\n")
	require.Contains(t, record, "Alert Name: P1 Ticket\n")
	require.Contains(t, record, "School: North High\n")
	require.Contains(t, record, "Ticket: #48213\n")
	require.Contains(t, record, `"alertname": "P1 Ticket"`)
	require.Contains(t, record, "===========END===========\n")

	record = FormatRecord(at, Parse([]byte("garbage")))
	require.Contains(t, record, "Alert Name: Missing data!\n")
	require.Contains(t, record, "\nnull\n")
}

// TestAlertLog_Append writes two records and reads them back through the link.
func TestAlertLog_Append(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alerts.log")

	log, err := OpenAlertLog(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	log.Append(ctx, "first\n")
	log.Append(ctx, "second\n")
	require.NoError(t, log.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first\nsecond\n", string(contents))
}

// TestAlertLog_Nil discards records without panicking.
func TestAlertLog_Nil(t *testing.T) {
	t.Parallel()

	var log *AlertLog

	require.NotPanics(t, func() {
		log.Append(context.Background(), "dropped")
	})
	require.NoError(t, log.Close())
}
