package alert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseEvent verifies accepted spellings and the error for unknown text.
func TestParseEvent(t *testing.T) {
	t.Parallel()

	cases := map[string]Event{
		"raise":   Raise,
		"Start":   Raise,
		" stop ":  Resolve,
		"RESOLVE": Resolve,
	}
	for s, want := range cases {
		got, err := ParseEvent(s)
		require.NoError(t, err, s)
		require.Equal(t, want, got, s)
		require.True(t, got.Valid())
	}

	_, err := ParseEvent("snooze")
	require.ErrorIs(t, err, ErrUnknownEvent)
	require.False(t, Event(0).Valid())
}

// TestStateStrings pins the names exposed on the status surfaces.
func TestStateStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "raise", Raise.String())
	require.Equal(t, "resolve", Resolve.String())
	require.Equal(t, "resolved", Resolved.String())
	require.Equal(t, "active", Active.String())
	require.Equal(t, "idle", SequencerIdle.String())
	require.Equal(t, "phase_one", SequencerPhaseOne.String())
	require.Equal(t, "phase_two", SequencerPhaseTwo.String())
	require.Equal(t, "stopping", SequencerStopping.String())
	require.Equal(t, "stopped", SequencerStopped.String())
}

// TestMissingDetails checks the sentinel defaults.
func TestMissingDetails(t *testing.T) {
	t.Parallel()

	d := MissingDetails()
	require.Equal(t, MissingData, d.Name)
	require.False(t, d.Complete())

	d = Details{Name: "P1", Site: "North", Ticket: "42"}
	require.True(t, d.Complete())
}

// TestActor verifies Clone copies and String handles nil.
func TestActor(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Actor)(nil).Clone())
	require.Equal(t, "<unknown>", (*Actor)(nil).String())

	a := &Actor{Hostname: "noc-pi", Username: "oncall"}
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.Equal(t, "oncall@noc-pi", b.String())
}

// TestParseLifecycleState checks the textual forms round-trip.
func TestParseLifecycleState(t *testing.T) {
	t.Parallel()

	for _, state := range []LifecycleState{Resolved, Active} {
		parsed, ok := ParseLifecycleState(state.String())
		require.True(t, ok)
		require.Equal(t, state, parsed)
	}

	_, ok := ParseLifecycleState("paused")
	require.False(t, ok)
}
