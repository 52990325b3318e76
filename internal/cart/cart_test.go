package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/grouporder/internal/models"
)

func TestAdd(t *testing.T) {
	c := New()
	assert.True(t, c.Empty())

	a := c.Add("Chicken Dum Biryani", "Full", 300)
	b := c.Add("Chicken Dum Biryani", "Full", 300)
	plain := c.Add("Butter Naan", "", 45)

	assert.NotEqual(t, a.ID, b.ID, "same item twice must give two lines")
	assert.Equal(t, 1, a.Quantity)
	assert.Equal(t, models.DefaultSize, plain.Size)
	assert.Len(t, c.Lines(), 3)
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 645.0, c.Total())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	line := c.Add("Haleem", "", 280)
	other := c.Add("Sheermal", "", 60)

	require.NoError(t, c.SetQuantity(line.ID, 3))
	got, ok := c.Line(line.ID)
	require.True(t, ok)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 900.0, c.Total())

	require.NoError(t, c.SetQuantity(line.ID, 0))
	_, ok = c.Line(line.ID)
	assert.False(t, ok, "quantity 0 removes the line")
	assert.Equal(t, []models.LineItem{other.LineItem}, c.Items())

	assert.ErrorIs(t, c.SetQuantity(other.ID, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity("missing", 2), ErrLineNotFound)
}

func TestIncrementDecrement(t *testing.T) {
	c := New()
	line := c.Add("Apollo Fish", "", 320)

	require.NoError(t, c.Increment(line.ID))
	require.NoError(t, c.Increment(line.ID))
	assert.Equal(t, 3, c.Count())

	require.NoError(t, c.Decrement(line.ID))
	require.NoError(t, c.Decrement(line.ID))
	require.NoError(t, c.Decrement(line.ID))
	assert.True(t, c.Empty())

	assert.ErrorIs(t, c.Decrement(line.ID), ErrLineNotFound)
	assert.ErrorIs(t, c.Increment(line.ID), ErrLineNotFound)
}

func TestLinesIsACopy(t *testing.T) {
	c := New()
	c.Add("Dal Tadka", "", 160)

	lines := c.Lines()
	lines[0].Quantity = 50
	assert.Equal(t, 1, c.Count())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add("Dal Tadka", "", 160)
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0.0, c.Total())
	assert.Empty(t, c.Items())
}
