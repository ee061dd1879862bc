// Package splitter divides document text into overlapping chunks sized for
// embedding-model context limits.
package splitter

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jeremiep/portfolio-be/types"
)

// DefaultSeparators are tried from most- to least-preferred. The trailing
// empty string means character-level splitting, a guaranteed terminator.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter recursively splits text on the coarsest separator that yields
// pieces small enough, merging adjacent small pieces back up to chunkSize.
// Consecutive chunks share up to chunkOverlap characters drawn from the
// original text.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if chunkOverlap < 0 {
		return nil, errors.New("chunk overlap must not be negative")
	}
	if chunkOverlap >= chunkSize {
		return nil, errors.New("chunk overlap must be smaller than chunk size")
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   DefaultSeparators,
	}, nil
}

// SplitDocument splits a document into chunks carrying copies of the parent
// metadata tagged with chunk position. Empty content yields no chunks.
func (s *Splitter) SplitDocument(doc *types.Document) []types.Chunk {
	text := strings.TrimSpace(doc.Content)
	if text == "" {
		return nil
	}
	pieces := s.SplitText(text)
	total := len(pieces)
	chunks := make([]types.Chunk, 0, total)
	for i, piece := range pieces {
		metadata := make(map[string]string, len(doc.Metadata)+2)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata[types.MetaChunkIndex] = strconv.Itoa(i)
		metadata[types.MetaTotalChunks] = strconv.Itoa(total)
		chunks = append(chunks, types.Chunk{
			Content:     piece,
			Metadata:    metadata,
			ChunkIndex:  i,
			TotalChunks: total,
		})
	}
	return chunks
}

// SplitText splits raw text into chunk contents.
func (s *Splitter) SplitText(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			remaining = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(remaining) == 0 {
			// Atomic oversize unit, no finer separator left.
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge joins adjacent small pieces into chunks of at most chunkSize,
// sliding a window so consecutive chunks retain up to chunkOverlap
// characters of shared text. Pieces arrive with their separators attached,
// so concatenation reproduces the source text.
func (s *Splitter) merge(splits []string) []string {
	var docs []string
	var window []string
	total := 0
	for _, piece := range splits {
		if total+len(piece) > s.chunkSize && len(window) > 0 {
			if doc := strings.TrimSpace(strings.Join(window, "")); doc != "" {
				docs = append(docs, doc)
			}
			for len(window) > 0 && (total > s.chunkOverlap || total+len(piece) > s.chunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}
	if doc := strings.TrimSpace(strings.Join(window, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on separator, keeping the separator at
// the end of each piece. An empty separator splits into single characters.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += separator
		}
		if part == "" {
			continue
		}
		pieces = append(pieces, part)
	}
	return pieces
}
