package lenticalib

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	prev := Logf
	defer func() { Logf = prev }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("captured %d", 3)
	assert.Equal(t, []string{"captured 3"}, got)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("dropped %s", "line") })
	assert.Len(t, got, 1)
}

func TestSessionLogsRejections(t *testing.T) {
	s := newGridSession(t, nil)
	var lines []string
	prev := Logf
	t.Cleanup(func() { Logf = prev })
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	p := gridParams()
	p.PitchPixel = 0
	assert.Error(t, s.SetParams(t.Context(), p))
	if assert.Len(t, lines, 1) {
		assert.Contains(t, lines[0], "set params rejected")
		assert.Contains(t, lines[0], "pitchPixel")
	}
}
