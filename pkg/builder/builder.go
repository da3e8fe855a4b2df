package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

type Config struct {
	// Languages selects how many Documents each record produces, one per
	// language. Supported: "en", "id".
	Languages []string
	USDToIDR  float64
}

type Builder struct {
	config Config
}

func NewWithConfig(config Config) Builder {
	if len(config.Languages) == 0 {
		config.Languages = []string{"en"}
	}
	if config.USDToIDR == 0 {
		config.USDToIDR = 16811
	}
	return Builder{config: config}
}

// Build turns normalized records into retrievable Documents. With more than
// one configured language each record yields one fully localized Document
// per language; the numeric values are identical across them.
func (b Builder) Build(records []models.PropertyRecord) []models.Document {
	docs := make([]models.Document, 0, len(records)*len(b.config.Languages))
	for _, rec := range records {
		for _, lang := range b.config.Languages {
			docs = append(docs, models.Document{
				ID:       uuid.NewString(),
				Content:  b.content(rec, lang),
				Language: lang,
				Record:   rec,
			})
		}
	}
	return docs
}

func (b Builder) content(rec models.PropertyRecord, lang string) string {
	parts := []string{
		fmt.Sprintf("%s - %s - %s", rec.Title, rec.Address, rec.DisplayArea()),
		FormatSummary(rec, lang, b.config.USDToIDR),
	}
	if rec.Tags != "" {
		parts = append(parts, rec.Tags)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// FormatSummary renders the deterministic one-paragraph property description
// used both as document content and in the final answer text.
func FormatSummary(rec models.PropertyRecord, lang string, usdToIDR float64) string {
	typeStr := rec.DisplayType()
	if typeStr != "" {
		typeStr = "'" + typeStr + "'"
	}
	price := FormatPrice(rec.PriceInfo, usdToIDR, lang)

	var s string
	if lang == "id" {
		s = fmt.Sprintf("%s adalah sebuah %s yang berlokasi di %s, %s. "+
			"Alamat lengkapnya terletak di %s. "+
			"Properti ini memiliki %d kamar tidur, %d kamar mandi, "+
			"dan dapat menampung hingga %d tamu. %s",
			rec.Title, typeStr, rec.DisplayArea(), rec.City, rec.Address,
			rec.Bedroom, rec.Bathroom, rec.GuestNumber, price)
	} else {
		s = fmt.Sprintf("%s is a %s located in %s, %s. "+
			"Full address: %s. "+
			"This property has %d bedrooms, %d bathrooms, "+
			"and can accommodate up to %d guests. %s",
			rec.Title, typeStr, rec.DisplayArea(), rec.City, rec.Address,
			rec.Bedroom, rec.Bathroom, rec.GuestNumber, price)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
