package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/grouporder/internal/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, storage.TokensKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	doc := []byte(`{"x":1}`)
	require.NoError(t, s.Set(ctx, storage.TokensKey, doc))

	// Mutating the caller's slice must not leak into the store.
	doc[0] = '['
	got, err := s.Get(ctx, storage.TokensKey)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(got))

	got[0] = '['
	again, err := s.Get(ctx, storage.TokensKey)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(again))

	assert.NoError(t, s.Close())
}
