package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppendPeekTrim(t *testing.T) {
	ctx := context.Background()
	q := NewMemory()

	require.NoError(t, q.Append(ctx, []byte(`{"n":1}`)))
	require.NoError(t, q.Append(ctx, []byte(`{"n":2}`)))
	require.NoError(t, q.Append(ctx, []byte(`{"n":3}`)))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Peek must not consume.
	batch, err := q.Peek(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, `{"n":1}`, string(batch[0]))
	assert.Equal(t, `{"n":2}`, string(batch[1]))

	again, err := q.Peek(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, batch, again)

	require.NoError(t, q.Trim(ctx, 2))
	batch, err = q.Peek(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, `{"n":3}`, string(batch[0]))
}

func TestMemoryPeekBeyondLength(t *testing.T) {
	ctx := context.Background()
	q := NewMemory()
	require.NoError(t, q.Append(ctx, []byte("a")))

	batch, err := q.Peek(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestMemoryTrimBeyondLength(t *testing.T) {
	ctx := context.Background()
	q := NewMemory()
	require.NoError(t, q.Append(ctx, []byte("a")))
	require.NoError(t, q.Trim(ctx, 20))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryCopiesPayloads(t *testing.T) {
	ctx := context.Background()
	q := NewMemory()

	payload := []byte("original")
	require.NoError(t, q.Append(ctx, payload))
	payload[0] = 'X'

	batch, err := q.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", string(batch[0]))
}
