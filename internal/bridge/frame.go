package bridge

import "bytes"

// Framer splits the inbound byte stream into newline-delimited frames.
// Bytes after the last newline stay buffered until the next read.
type Framer struct {
	buf []byte
}

// Push appends data and returns every complete frame, NUL-stripped and
// whitespace-trimmed. Empty frames are dropped.
func (f *Framer) Push(data []byte) [][]byte {
	f.buf = append(f.buf, data...)

	var frames [][]byte
	start := 0
	for i := 0; i < len(f.buf); i++ {
		if f.buf[i] != '\n' {
			continue
		}
		if frame := sanitize(f.buf[start:i]); len(frame) > 0 {
			frames = append(frames, frame)
		}
		start = i + 1
	}
	f.buf = append(f.buf[:0], f.buf[start:]...)
	return frames
}

// Pending returns the number of buffered bytes awaiting a newline.
func (f *Framer) Pending() int {
	return len(f.buf)
}

func sanitize(frame []byte) []byte {
	return bytes.TrimSpace(bytes.ReplaceAll(frame, []byte{0}, nil))
}
