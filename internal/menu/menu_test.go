package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/grouporder/internal/models"
)

func TestDefault(t *testing.T) {
	m, err := Default()
	require.NoError(t, err)
	require.Len(t, m.Types, 2)
	assert.Equal(t, "vegetarian", m.Types[0].Key)
	assert.Equal(t, "Vegetarian", m.Types[0].Label())
	assert.Equal(t, "non_vegetarian", m.Types[1].Key)
	assert.Equal(t, "Non-Vegetarian", m.Types[1].Label())

	biryani, err := m.Category("non_vegetarian", "biryani")
	require.NoError(t, err)
	require.NotEmpty(t, biryani.Items)
	assert.True(t, biryani.Items[0].Sized())
}

func TestParseKeepsOrder(t *testing.T) {
	doc := `
menu:
  vegetarian:
    zebra_section:
      - name: Z
        price: 1
    alpha_section:
      - name: Thali
        prices:
          Small: 150
          Large: 250
          Medium: 200
`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)

	cats := m.Types[0].Categories
	require.Len(t, cats, 2)
	assert.Equal(t, "zebra_section", cats[0].Key)
	assert.Equal(t, "zebra section", cats[0].Label())

	thali := cats[1].Items[0]
	assert.Equal(t, []SizePrice{
		{Size: "Small", Price: 150},
		{Size: "Large", Price: 250},
		{Size: "Medium", Price: 200},
	}, thali.Options())
}

func TestParseJSON(t *testing.T) {
	doc := `{"menu": {"vegetarian": {"Main_Course": [{"name": "Dal", "price": 120}, {"name": "Biryani", "prices": {"Regular": 200, "Large": 250}}]}}}`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)

	cat, err := m.Category("vegetarian", "Main_Course")
	require.NoError(t, err)
	assert.Equal(t, "Main Course", cat.Label())
	require.Len(t, cat.Items, 2)

	dal := cat.Items[0]
	assert.False(t, dal.Sized())
	assert.Equal(t, []SizePrice{{Size: models.DefaultSize, Price: 120}}, dal.Options())

	assert.Equal(t, "Large", cat.Items[1].Options()[1].Size)
}

func TestParseWithoutWrapper(t *testing.T) {
	m, err := Parse([]byte("vegetarian:\n  snacks:\n    - name: Samosa\n      price: 25\n"))
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", m.Types[0].Key)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not a mapping", "- a\n- b\n"},
		{"categories not a mapping", "menu:\n  vegetarian: [1, 2]\n"},
		{"item without price", "menu:\n  vegetarian:\n    snacks:\n      - name: Samosa\n"},
		{"item without name", "menu:\n  vegetarian:\n    snacks:\n      - price: 10\n"},
		{"bad price", "menu:\n  vegetarian:\n    snacks:\n      - name: Samosa\n        prices:\n          Small: cheap\n"},
		{"invalid yaml", "menu: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsNegativePrices(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"flat price", "menu:\n  vegetarian:\n    snacks:\n      - name: Coupon\n        price: -50\n"},
		{"sized price", "menu:\n  vegetarian:\n    snacks:\n      - name: Samosa\n        prices:\n          Small: 20\n          Large: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrNegativePrice)
		})
	}

	m, err := Parse([]byte("menu:\n  vegetarian:\n    snacks:\n      - name: Water\n        price: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Types[0].Categories[0].Items[0].Price)
}

func TestLookupErrors(t *testing.T) {
	m, err := Default()
	require.NoError(t, err)

	_, err = m.Type("vegan")
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = m.Category("vegetarian", "sushi")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = m.Category("vegan", "sushi")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		m, err := Load("")
		require.NoError(t, err)
		assert.NotEmpty(t, m.Types)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menu.yaml")
		require.NoError(t, os.WriteFile(path, []byte("menu:\n  vegetarian:\n    snacks:\n      - name: Samosa\n        price: 25\n"), 0o644))

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Samosa", m.Types[0].Categories[0].Items[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
