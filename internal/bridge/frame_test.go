package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frames(batches ...[]byte) []string {
	f := &Framer{}
	var out []string
	for _, batch := range batches {
		for _, frame := range f.Push(batch) {
			out = append(out, string(frame))
		}
	}
	return out
}

func TestFramerSplitsCompleteFrames(t *testing.T) {
	got := frames([]byte("{\"a\":1}\n{\"b\":2}\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestFramerBuffersPartialFrame(t *testing.T) {
	f := &Framer{}

	assert.Empty(t, f.Push([]byte(`{"symbol":"EUR`)))
	assert.Equal(t, 14, f.Pending())

	got := f.Push([]byte("USD\"}\n"))
	assert.Len(t, got, 1)
	assert.Equal(t, `{"symbol":"EURUSD"}`, string(got[0]))
	assert.Zero(t, f.Pending())
}

func TestFramerStripsNulAndWhitespace(t *testing.T) {
	got := frames([]byte("\x00{\"a\":1}\x00 \r\n"))
	assert.Equal(t, []string{`{"a":1}`}, got)
}

func TestFramerDropsEmptyFrames(t *testing.T) {
	got := frames([]byte("\n\n{\"a\":1}\n\x00\n \n"))
	assert.Equal(t, []string{`{"a":1}`}, got)
}

func TestFramerSplitAcrossManyReads(t *testing.T) {
	payload := []byte("{\"symbol\":\"USDJPY\",\"bid\":151.2}\n")
	f := &Framer{}

	var got []string
	for _, b := range payload {
		for _, frame := range f.Push([]byte{b}) {
			got = append(got, string(frame))
		}
	}
	assert.Equal(t, []string{`{"symbol":"USDJPY","bid":151.2}`}, got)
}
