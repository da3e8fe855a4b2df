package models

// PropertyRecord is one normalized row of the source table. Every field is
// always present: missing numerics normalize to 0 and missing text to "",
// so downstream formatting never has to branch on key absence.
type PropertyRecord struct {
	Title               string  `json:"title"`
	PropertyType        string  `json:"property_type"`
	CleanedPropertyType string  `json:"cleaned_property_type"`
	Address             string  `json:"address"`
	AddressDetail       string  `json:"address_detail"`
	City                string  `json:"city"`
	Area                string  `json:"area"`
	CleanedArea         string  `json:"cleaned_area"`
	Bedroom             int     `json:"bedroom"`
	Bathroom            int     `json:"bathroom"`
	GuestNumber         int     `json:"guest_number"`
	PriceInfo           string  `json:"price_info"`
	PropertyStatus      string  `json:"property_status"`
	Tags                string  `json:"tags"`
	Price               float64 `json:"price"`
	ImageURL            string  `json:"image_url"`
}

// DisplayType prefers the cleaned property type over the raw one.
func (r PropertyRecord) DisplayType() string {
	if r.CleanedPropertyType != "" {
		return r.CleanedPropertyType
	}
	return r.PropertyType
}

// DisplayArea prefers the cleaned area over the raw one.
func (r PropertyRecord) DisplayArea() string {
	if r.CleanedArea != "" {
		return r.CleanedArea
	}
	return r.Area
}

// Document is one retrievable unit built from a record. With bilingual
// generation enabled there is one Document per language per record, each
// carrying a localized content string and the language tag.
type Document struct {
	ID       string
	Content  string
	Language string
	Record   PropertyRecord
}

// Chunk is a bounded-length slice of a Document's content. It carries the
// full record metadata of the Document it was split from.
type Chunk struct {
	ID       string
	Content  string
	Language string
	Record   PropertyRecord
}

// SearchResult is a retrieved chunk with its relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Response is the final answer produced for one query.
type Response struct {
	Text      string
	Generated string
	Sources   []SearchResult
	Language  string
}

// Exchange is one user/assistant turn kept in the session history.
type Exchange struct {
	Query  string
	Answer string
	Failed bool
}

// Table is a loaded source table: the recognized column names and one
// string-valued cell map per row.
type Table struct {
	Columns []string
	Rows    []map[string]string
}
