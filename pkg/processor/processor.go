package processor

import (
	"fmt"
	"strings"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

type ProcessorConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = 20
	}
	return Processor{config: config}
}

// Split turns Documents into bounded-size Chunks. A Document whose content
// already fits the chunk size passes through as exactly one Chunk with
// identical content. Splitting prefers sentence boundaries, carries
// chunk_overlap characters between adjacent chunks, copies the Document's
// metadata onto every chunk and is deterministic for a given input.
func (p Processor) Split(docs []models.Document) []models.Chunk {
	var chunks []models.Chunk
	for _, doc := range docs {
		pieces := p.splitIntoChunks(doc.Content)
		for i, piece := range pieces {
			chunks = append(chunks, models.Chunk{
				ID:       fmt.Sprintf("%s_%d", doc.ID, i),
				Content:  piece,
				Language: doc.Language,
				Record:   doc.Record,
			})
		}
	}
	return chunks
}

func (p Processor) splitIntoChunks(text string) []string {
	if len(text) <= p.config.ChunkSize {
		return []string{text}
	}

	sentences := p.splitIntoSentences(text)

	var chunks []string
	current := strings.Builder{}

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}

	for _, sentence := range sentences {
		// A single sentence beyond the budget is cut at the size boundary.
		if len(sentence) > p.config.ChunkSize {
			flush()
			current.Reset()
			step := p.config.ChunkSize - p.config.ChunkOverlap
			for start := 0; ; start += step {
				end := start + p.config.ChunkSize
				if end >= len(sentence) {
					chunks = append(chunks, sentence[start:])
					break
				}
				chunks = append(chunks, sentence[start:end])
			}
			continue
		}

		if current.Len() > 0 && current.Len()+1+len(sentence) > p.config.ChunkSize {
			flush()

			// Start the next chunk with the overlap tail of this one, but
			// only when tail plus sentence still fits the budget; otherwise
			// the overlap is dropped so no chunk ever exceeds ChunkSize.
			var tail string
			if p.config.ChunkOverlap > 0 && current.Len() > p.config.ChunkOverlap {
				s := current.String()
				tail = s[len(s)-p.config.ChunkOverlap:]
			}
			current.Reset()
			if tail != "" && len(tail)+1+len(sentence) <= p.config.ChunkSize {
				current.WriteString(tail)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}

	flush()
	return chunks
}

func (p Processor) splitIntoSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
	var sentences []string

	current := strings.Builder{}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				sentences = append(sentences, strings.TrimSpace(current.String()))
				current.Reset()
				break
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
