package checkin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	for _, mood := range []Mood{MoodUp, MoodDown} {
		for mask := 0; mask < 8; mask++ {
			c := CheckIn{
				Mood:           mood,
				TimeWasCorrect: mask&1 != 0,
				StartedOnTime:  mask&2 != 0,
				EndedOnTime:    mask&4 != 0,
			}
			got, ok := Parse(Serialize(c))
			require.True(t, ok, "round trip of %+v", c)
			assert.Equal(t, c, got)
		}
	}
}

func TestSerialize_Format(t *testing.T) {
	got := Serialize(CheckIn{Mood: MoodUp, TimeWasCorrect: true, StartedOnTime: true, EndedOnTime: false})
	want := `{"version":1,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":false}}`
	assert.Equal(t, want, got)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		notes string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"free text", "felt great today"},
		{"truncated json", `{"version":1,"kind":"completion-checkin"`},
		{"array", `[1,2,3]`},
		{"wrong version", `{"version":2,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":true}}`},
		{"wrong kind", `{"version":1,"kind":"journal","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":true}}`},
		{"missing data", `{"version":1,"kind":"completion-checkin"}`},
		{"bad mood", `{"version":1,"kind":"completion-checkin","data":{"mood":"meh","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":true}}`},
		{"missing field", `{"version":1,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":true}}`},
		{"string bool", `{"version":1,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":"yes","startedOnTime":true,"endedOnTime":true}}`},
		{"trailing garbage", `{"version":1,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":true}} extra`},
		{"binary", "\x00\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse(tt.notes)
			assert.False(t, ok)
		})
	}
}

func TestParse_IgnoresExtraFields(t *testing.T) {
	notes := `{"version":1,"kind":"completion-checkin","note":"x","data":{"mood":"down","timeWasCorrect":false,"startedOnTime":true,"endedOnTime":true,"extra":1}}`
	got, ok := Parse(notes)
	require.True(t, ok)
	assert.Equal(t, CheckIn{Mood: MoodDown, StartedOnTime: true, EndedOnTime: true}, got)
}

func TestParse_AcceptsFloatVersion(t *testing.T) {
	notes := `{"version":1.0,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":false,"endedOnTime":true}}`
	require.NoError(t, Validate(notes))
	got, ok := Parse(notes)
	require.True(t, ok)
	assert.Equal(t, CheckIn{Mood: MoodUp, TimeWasCorrect: true, EndedOnTime: true}, got)

	_, ok = Parse(`{"version":1.5,"kind":"completion-checkin","data":{"mood":"up","timeWasCorrect":true,"startedOnTime":false,"endedOnTime":true}}`)
	assert.False(t, ok)
}

func TestValidate_ReportsPath(t *testing.T) {
	err := Validate(`{"version":1,"kind":"completion-checkin","data":{"mood":"sideways","timeWasCorrect":true,"startedOnTime":true,"endedOnTime":true}}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Path, "mood")
}
