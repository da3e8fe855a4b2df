package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/builder"
)

// summaryCount is how many retrieved properties are rendered into the
// formatted answer.
const summaryCount = 3

const instructionEN = `You are a friendly, professional and very helpful Bali property assistant.
Use ONLY the information available in the context below to answer.
Never make up or assume information outside the context.
If no matching property is found, say so politely and offer further help.
If the user's question does not mention a location (city or area), politely ask which location they want.
If it does not mention the number of guests, bedrooms or a budget, offer options from the context or ask a clarifying question.
Use a warm, polite and enthusiastic tone.`

const instructionID = `Anda adalah asisten properti Bali yang ramah, profesional, dan sangat membantu.
Gunakan HANYA informasi yang tersedia dari konteks di bawah ini untuk memberikan jawaban.
Jangan mengarang atau mengasumsikan informasi di luar konteks.
Jika tidak menemukan properti yang cocok, katakan dengan sopan dan tawarkan bantuan lebih lanjut.
Jika pertanyaan pengguna tidak menyebutkan lokasi (city atau area), tanyakan dengan sopan lokasi yang diinginkan.
Jika jumlah tamu, kamar tidur, atau anggaran tidak disebutkan, tawarkan pilihan sesuai konteks atau tanyakan untuk memperjelas kebutuhan.
Gunakan gaya bahasa yang ramah, sopan, dan antusias.`

type Config struct {
	TopK     int
	USDToIDR float64
}

// Responder turns a free-text query into a grounded, formatted answer:
// embed the query, retrieve the top-K chunks, run one generation call over
// the assembled prompt, then render the deterministic per-property answer.
type Responder struct {
	config    Config
	embedder  types.Embedder
	index     types.VectorIndex
	generator types.Generator
}

func NewWithConfig(config Config, embedder types.Embedder, idx types.VectorIndex, generator types.Generator) *Responder {
	if config.TopK == 0 {
		config.TopK = 3
	}
	if config.USDToIDR == 0 {
		config.USDToIDR = 16811
	}
	return &Responder{
		config:    config,
		embedder:  embedder,
		index:     idx,
		generator: generator,
	}
}

// Answer processes one query. Failures degrade to a localized apology in the
// returned Response; the error is returned alongside for logging, so the
// serving loop never dies on a single bad query.
func (r *Responder) Answer(ctx context.Context, query string) (*models.Response, error) {
	lang := DetectLanguage(query)
	resp := &models.Response{Language: lang, Sources: []models.SearchResult{}}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		resp.Text = apology(lang)
		return resp, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.index.Search(ctx, vector, r.config.TopK)
	if err != nil {
		resp.Text = apology(lang)
		return resp, fmt.Errorf("search index: %w", err)
	}

	// Nothing retrieved is a defined success path: reply with the fixed
	// no-match message and never invoke the generation backend.
	if len(results) == 0 {
		resp.Text = NoMatchMessage(lang)
		return resp, nil
	}
	resp.Sources = results

	generated, err := r.generator.Generate(ctx, r.assemblePrompt(query, results, lang))
	if err != nil {
		resp.Text = apology(lang)
		return resp, fmt.Errorf("generate answer: %w", err)
	}
	resp.Generated = generated

	resp.Text = r.formatAnswer(query, results, lang)
	return resp, nil
}

func (r *Responder) assemblePrompt(query string, results []models.SearchResult, lang string) string {
	instruction := instructionEN
	contextLabel := "Property context:"
	questionLabel := "User question:"
	responseLabel := "Response:"
	if lang == "id" {
		instruction = instructionID
		contextLabel = "Konteks properti:"
		questionLabel = "Pertanyaan pengguna:"
		responseLabel = "Respons:"
	}

	var contextBuilder strings.Builder
	for _, res := range results {
		contextBuilder.WriteString(res.Chunk.Content)
		contextBuilder.WriteString("\n\n")
	}

	return fmt.Sprintf("%s\n\n---\n\n%s\n%s\n%s\n%s\n\n%s\n",
		instruction, contextLabel, contextBuilder.String(), questionLabel, query, responseLabel)
}

// formatAnswer renders the user-facing text: a greeting, one deterministic
// summary per retrieved property, and a closing offer for more help.
func (r *Responder) formatAnswer(query string, results []models.SearchResult, lang string) string {
	parts := []string{greeting(lang, query)}

	n := len(results)
	if n > summaryCount {
		n = summaryCount
	}
	for _, res := range results[:n] {
		parts = append(parts, builder.FormatSummary(res.Chunk.Record, lang, r.config.USDToIDR))
	}

	parts = append(parts, closing(lang))
	return strings.Join(parts, "\n\n")
}
