package messaging

import (
	"log/slog"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// DefaultMaxChunk is the largest message body, in characters, sent as one message.
const DefaultMaxChunk = 4096

// Chunk splits text into pieces of at most max characters.
// Paragraph breaks are preferred over line breaks, then spaces; a piece with
// no usable break is cut at exactly max characters. Text that already fits
// is returned unchanged as the only chunk. Empty text yields no chunks.
// A max below 1 uses DefaultMaxChunk.
func Chunk(text string, max int) []string {
	if max < 1 {
		max = DefaultMaxChunk
	}
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(max),
		textsplitter.WithChunkOverlap(0),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil {
		slog.Default().Warn("text splitter failed, cutting at fixed size", "err", err)
		pieces = []string{text}
	}

	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		chunks = append(chunks, hardSplit(piece, max)...)
	}
	return chunks
}

// hardSplit cuts text into runs of at most max runes.
func hardSplit(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := min(max, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
