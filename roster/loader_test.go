package roster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/core/model"
)

func TestLoadReferenceYAML(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "reference.yaml"))
	require.NoError(t, err)
	require.Len(t, r.Participants, 5)
	require.Len(t, r.Meetings, 3)

	dan := r.ParticipantIndex()["Dan"]
	assert.Equal(t, -2.0, dan.UTCOffsetHours)
	assert.Equal(t, model.NewClock(8, 30), dan.LocalStart)
	assert.Equal(t, model.NewClock(16, 30), dan.LocalEnd)

	eng, ok := r.Meeting("Eng.AllHands")
	require.True(t, ok)
	assert.Equal(t, "Engineering", eng.Team)
	assert.Equal(t, 30, eng.DurationMinutes)
	assert.Equal(t, []string{"Bob", "Cara", "Dan"}, eng.Participants)
}

func TestLoadJSONFractionalOffset(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "overnight.json"))
	require.NoError(t, err)
	priya := r.ParticipantIndex()["Priya"]
	assert.Equal(t, 330, priya.OffsetMinutes())
	assert.Equal(t, model.NewClock(22, 0), priya.LocalStart)
	assert.Equal(t, model.NewClock(6, 0), priya.LocalEnd)
	assert.Equal(t, model.ClockTime(model.MinutesPerDay), r.ParticipantIndex()["Sam"].LocalEnd)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"extension", write("roster.toml", ""), "unsupported roster format"},
		{"missing", filepath.Join(dir, "absent.yaml"), "no such file"},
		{"bad clock", write("clock.yaml", "participants:\n  - name: A\n    local_start: \"9h\"\n    local_end: \"17:00\"\n"), "local_start"},
		{"unknown field", write("extra.json", `{"participants":[],"rooms":[]}`), "rooms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	f, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	r, err := f.ToModel()
	require.NoError(t, err)
	assert.Empty(t, r.Participants)
	assert.Empty(t, r.Meetings)
}

func TestFromModelRoundTrip(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "reference.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromModel(r), FormatYAML))
	f, err := Decode(&buf, FormatYAML)
	require.NoError(t, err)
	back, err := f.ToModel()
	require.NoError(t, err)
	assert.Equal(t, r, back)
}
