package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/normalizer"
)

func TestNormalize(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title", "property_type", "area", "bedroom", "bathroom", "guest_number", "price_info"},
		Rows: []map[string]string{
			{
				"title":         "Villa Sunrise",
				"property_type": "Villa",
				"area":          "Ubud",
				"bedroom":       "3.0",
				"bathroom":      "2",
				"guest_number":  "6",
				"price_info":    "$100 per night",
			},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{})
	records, warnings := n.Normalize(table)

	require.Len(t, records, 1)
	assert.Empty(t, warnings)

	rec := records[0]
	assert.Equal(t, "Villa Sunrise", rec.Title)
	assert.Equal(t, "Villa", rec.PropertyType)
	assert.Equal(t, 3, rec.Bedroom)
	assert.Equal(t, 2, rec.Bathroom)
	assert.Equal(t, 6, rec.GuestNumber)
	assert.Equal(t, "$100 per night", rec.PriceInfo)
}

func TestNormalizeMissingValues(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title", "bedroom", "bathroom", "guest_number", "price", "area"},
		Rows: []map[string]string{
			{
				"title":        "Villa Sunrise",
				"bedroom":      "nan",
				"bathroom":     "",
				"guest_number": "N/A",
				"price":        "none",
				"area":         "NaN",
			},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{})
	records, warnings := n.Normalize(table)

	require.Len(t, records, 1)
	// Missing markers are valid defaults, not malformed values
	assert.Empty(t, warnings)

	rec := records[0]
	assert.Equal(t, 0, rec.Bedroom)
	assert.Equal(t, 0, rec.Bathroom)
	assert.Equal(t, 0, rec.GuestNumber)
	assert.Equal(t, 0.0, rec.Price)
	assert.Equal(t, "", rec.Area)
}

func TestNormalizeMalformedValues(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title", "bedroom", "price"},
		Rows: []map[string]string{
			{"title": "Villa Sunrise", "bedroom": "three", "price": "cheap"},
			{"title": "Villa Sunset", "bedroom": "-2", "price": "120"},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{})
	records, warnings := n.Normalize(table)

	// Malformed rows still come through with defaults
	require.Len(t, records, 2)
	require.Len(t, warnings, 3)

	assert.Equal(t, 0, records[0].Bedroom)
	assert.Equal(t, 0.0, records[0].Price)
	assert.Equal(t, 0, records[1].Bedroom)
	assert.Equal(t, 120.0, records[1].Price)

	assert.Equal(t, 0, warnings[0].Row)
	assert.Equal(t, "bedroom", warnings[0].Field)
	assert.Contains(t, warnings[0].String(), "unparseable count")
}

func TestNormalizeAbsentColumns(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title"},
		Rows: []map[string]string{
			{"title": "Villa Sunrise"},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{})
	records, warnings := n.Normalize(table)

	require.Len(t, records, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, records[0].Bedroom)
	assert.Equal(t, "", records[0].Area)
}

func TestNormalizeStripsMarkup(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title", "tags"},
		Rows: []map[string]string{
			{
				"title": "<b>Villa   Sunrise</b>",
				"tags":  "<ul><li>pool</li><li>wifi</li></ul>",
			},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{})
	records, _ := n.Normalize(table)

	require.Len(t, records, 1)
	assert.Equal(t, "Villa Sunrise", records[0].Title)
	assert.NotContains(t, records[0].Tags, "<li>")
	assert.Contains(t, records[0].Tags, "pool")
}

func TestNormalizeCleanText(t *testing.T) {
	table := &models.Table{
		Columns: []string{"title", "property_type", "area", "cleaned_area"},
		Rows: []map[string]string{
			{
				"title":         "Villa Sunrise",
				"property_type": "Guest-House!",
				"area":          "Ubud, Gianyar",
				"cleaned_area":  "ubud",
			},
		},
	}

	n := normalizer.NewWithConfig(normalizer.Config{CleanText: true})
	records, _ := n.Normalize(table)

	require.Len(t, records, 1)
	// Derived only when the table does not already carry the cleaned value
	assert.Equal(t, "guesthouse", records[0].CleanedPropertyType)
	assert.Equal(t, "ubud", records[0].CleanedArea)
	// Raw values stay untouched
	assert.Equal(t, "Guest-House!", records[0].PropertyType)
	assert.Equal(t, "Ubud, Gianyar", records[0].Area)
}
