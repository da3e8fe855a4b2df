package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

// Config controls the optional index-friendly cleaning pass. Raw values are
// always kept; cleaning only fills the Cleaned* variants when the table does
// not already carry them.
type Config struct {
	CleanText bool
}

// RowWarning records a single malformed cell. The row is still emitted with
// the field defaulted; a bad row never blocks the rest of the run.
type RowWarning struct {
	Row     int
	Field   string
	Message string
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d, field %q: %s", w.Row, w.Field, w.Message)
}

type Normalizer struct {
	config Config
	punct  *regexp.Regexp
}

func NewWithConfig(config Config) Normalizer {
	return Normalizer{
		config: config,
		punct:  regexp.MustCompile(`[^a-zA-Z0-9\s]`),
	}
}

// Normalize turns every table row into a canonical PropertyRecord. Malformed
// values degrade to their defaults and are reported as warnings.
func (n Normalizer) Normalize(table *models.Table) ([]models.PropertyRecord, []RowWarning) {
	present := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		present[col] = true
	}

	var warnings []RowWarning
	records := make([]models.PropertyRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		warn := func(field, msg string) {
			warnings = append(warnings, RowWarning{Row: i, Field: field, Message: msg})
		}

		text := func(field string) string {
			if !present[field] {
				return ""
			}
			return n.cleanValue(row[field])
		}
		count := func(field string) int {
			if !present[field] {
				return 0
			}
			v, ok := parseCount(row[field])
			if !ok {
				warn(field, fmt.Sprintf("unparseable count %q, defaulting to 0", row[field]))
				return 0
			}
			return v
		}

		rec := models.PropertyRecord{
			Title:               text("title"),
			PropertyType:        text("property_type"),
			CleanedPropertyType: text("cleaned_property_type"),
			Address:             text("address"),
			AddressDetail:       text("address_detail"),
			City:                text("city"),
			Area:                text("area"),
			CleanedArea:         text("cleaned_area"),
			Bedroom:             count("bedroom"),
			Bathroom:            count("bathroom"),
			GuestNumber:         count("guest_number"),
			PriceInfo:           text("price_info"),
			PropertyStatus:      text("property_status"),
			Tags:                text("tags"),
			ImageURL:            text("image_url"),
		}

		if present["price"] {
			if v, ok := parsePrice(row["price"]); ok {
				rec.Price = v
			} else {
				warn("price", fmt.Sprintf("unparseable price %q, defaulting to 0", row["price"]))
			}
		}

		if n.config.CleanText {
			if rec.CleanedPropertyType == "" {
				rec.CleanedPropertyType = n.cleanText(rec.PropertyType)
			}
			if rec.CleanedArea == "" {
				rec.CleanedArea = n.cleanText(rec.Area)
			}
		}

		records = append(records, rec)
	}

	return records, warnings
}

// cleanValue trims a raw cell, drops spreadsheet missing-value markers and
// strips markup fragments left over from the upstream listing scraper.
func (n Normalizer) cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if isMissing(v) {
		return ""
	}
	if strings.Contains(v, "<") && strings.Contains(v, ">") {
		v = stripMarkup(v)
	}
	return strings.Join(strings.Fields(v), " ")
}

// cleanText lowercases and strips punctuation, the index-friendly variant.
func (n Normalizer) cleanText(v string) string {
	v = strings.ToLower(v)
	v = n.punct.ReplaceAllString(v, "")
	return strings.TrimSpace(strings.Join(strings.Fields(v), " "))
}

func stripMarkup(v string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v))
	if err != nil {
		return v
	}
	return doc.Text()
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "none", "null", "n/a", "#n/a":
		return true
	}
	return false
}

// parseCount parses a non-negative integer the way the source table delivers
// them: sometimes "3", sometimes "3.0". Missing markers are valid zeros.
func parseCount(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if isMissing(v) {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || f != f { // reject NaN from parse as well
		return 0, false
	}
	if f < 0 {
		return 0, false
	}
	return int(f), true
}

func parsePrice(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if isMissing(v) {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || f != f {
		return 0, false
	}
	return f, true
}
