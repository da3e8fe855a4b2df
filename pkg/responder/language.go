package responder

import (
	"fmt"
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`\p{L}+`)

// indonesianWords is a small stopword/domain list used to pick the reply
// language. One hit is enough; English is the default.
var indonesianWords = map[string]struct{}{
	"yang": {}, "dan": {}, "di": {}, "untuk": {}, "dengan": {},
	"saya": {}, "anda": {}, "kamu": {}, "ada": {}, "berapa": {},
	"mau": {}, "cari": {}, "sewa": {}, "harga": {}, "murah": {},
	"kamar": {}, "tamu": {}, "malam": {}, "bulan": {}, "dekat": {},
	"properti": {}, "tolong": {}, "bisa": {}, "ingin": {},
}

// DetectLanguage returns "id" when the query looks Indonesian, else "en".
func DetectLanguage(query string) string {
	for _, w := range wordRe.FindAllString(strings.ToLower(query), -1) {
		if _, ok := indonesianWords[w]; ok {
			return "id"
		}
	}
	return "en"
}

func greeting(lang, query string) string {
	if lang == "id" {
		return fmt.Sprintf("Halo! Berdasarkan permintaan Anda tentang '%s', "+
			"saya menemukan beberapa pilihan properti ini untuk Anda:", query)
	}
	return fmt.Sprintf("Hello! Based on your request about '%s', "+
		"I found these property options for you:", query)
}

func closing(lang string) string {
	if lang == "id" {
		return "Apakah Anda ingin informasi tentang properti lain?"
	}
	return "Would you like information about other properties?"
}

// NoMatchMessage is the fixed reply for a query that retrieved nothing.
func NoMatchMessage(lang string) string {
	if lang == "id" {
		return "Maaf, saya tidak menemukan properti yang cocok dengan kriteria Anda. " +
			"Bisakah Anda menjelaskan lebih detail?"
	}
	return "Sorry, I could not find a property matching your criteria. " +
		"Could you describe what you are looking for in more detail?"
}

func apology(lang string) string {
	if lang == "id" {
		return "Maaf, terjadi kendala saat memproses permintaan Anda. Silakan coba lagi."
	}
	return "Sorry, something went wrong while processing your request. Please try again."
}
