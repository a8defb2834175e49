package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeList(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		var names []string
		require.NoError(t, decodeList(`["Inbox","Sent"]`, &names))
		require.Equal(t, []string{"Inbox", "Sent"}, names)
	})

	t.Run("single object becomes one-element list", func(t *testing.T) {
		var recs []messageRecord
		require.NoError(t, decodeList(`{"id":"42","subject":"hi"}`, &recs))
		require.Len(t, recs, 1)
		require.Equal(t, "42", recs[0].ID)
	})

	t.Run("double-encoded payload", func(t *testing.T) {
		var names []string
		require.NoError(t, decodeList(`"[\"Inbox\"]"`, &names))
		require.Equal(t, []string{"Inbox"}, names)
	})

	t.Run("empty output is an empty list", func(t *testing.T) {
		var names []string
		require.NoError(t, decodeList("", &names))
		require.Empty(t, names)
	})

	t.Run("plain text is ErrParse", func(t *testing.T) {
		var names []string
		err := decodeList("execution error: something", &names)
		require.ErrorIs(t, err, ErrParse)
	})
}

func TestDecodeObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		var rec messageRecord
		require.NoError(t, decodeObject(`{"id":"1","subject":"s","read":true}`, &rec))
		require.Equal(t, "1", rec.ID)
		require.True(t, rec.Read)
	})

	t.Run("one-element array", func(t *testing.T) {
		var rec messageRecord
		require.NoError(t, decodeObject(`[{"id":"1"}]`, &rec))
		require.Equal(t, "1", rec.ID)
	})

	t.Run("double-encoded object", func(t *testing.T) {
		var rec messageRecord
		require.NoError(t, decodeObject(`"{\"id\":\"9\"}"`, &rec))
		require.Equal(t, "9", rec.ID)
	})

	t.Run("multi-element array is ErrParse", func(t *testing.T) {
		var rec messageRecord
		require.ErrorIs(t, decodeObject(`[{"id":"1"},{"id":"2"}]`, &rec), ErrParse)
	})

	t.Run("garbage is ErrParse", func(t *testing.T) {
		var rec messageRecord
		require.ErrorIs(t, decodeObject("not json at all", &rec), ErrParse)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("javascript toString with zone name", func(t *testing.T) {
		parsed := parseDate("Mon Mar 10 2025 14:30:05 GMT-0700 (Pacific Daylight Time)")
		require.NotNil(t, parsed)
		require.Equal(t, 2025, parsed.Year())
		require.Equal(t, time.March, parsed.Month())
		require.Equal(t, 10, parsed.Day())
	})

	t.Run("rfc3339", func(t *testing.T) {
		parsed := parseDate("2025-03-10T14:30:05Z")
		require.NotNil(t, parsed)
		require.Equal(t, 14, parsed.Hour())
	})

	t.Run("long-form locale text", func(t *testing.T) {
		parsed := parseDate("Monday, March 10, 2025 at 2:30:05 PM")
		require.NotNil(t, parsed)
		require.Equal(t, 14, parsed.Hour())
	})

	t.Run("unknown text yields nil", func(t *testing.T) {
		require.Nil(t, parseDate("sometime last week"))
	})

	t.Run("empty yields nil", func(t *testing.T) {
		require.Nil(t, parseDate(""))
	})
}
