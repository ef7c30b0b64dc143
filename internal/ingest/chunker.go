// Package ingest turns university documents into embedded passages in
// the per-university stores.
package ingest

import (
	"strings"
)

// Chunk is one window of document text ready for embedding.
type Chunk struct {
	Content    string
	SourceFile string
	Heading    string
}

// ChunkerOptions controls how documents are split.
type ChunkerOptions struct {
	// ChunkSize is the window length in runes.
	ChunkSize int
	// ChunkOverlap is how many runes consecutive windows share.
	ChunkOverlap int
}

// DefaultChunkerOptions returns the standard window parameters.
func DefaultChunkerOptions() ChunkerOptions {
	return ChunkerOptions{ChunkSize: 500, ChunkOverlap: 50}
}

// ChunkDocument splits a document into overlapping windows. Markdown
// headings start a new section so a window never straddles two topics;
// each chunk remembers the heading of the section it came from.
func ChunkDocument(content, sourceFile string, opts ChunkerOptions) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = 0
	}

	var chunks []Chunk
	for _, sec := range splitSections(content) {
		for _, window := range slideWindows(sec.body, opts.ChunkSize, opts.ChunkOverlap) {
			text := strings.TrimSpace(window)
			if text == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Content:    text,
				SourceFile: sourceFile,
				Heading:    sec.heading,
			})
		}
	}
	return chunks
}

type section struct {
	heading string
	body    string
}

// splitSections breaks content at markdown headings. Text before the
// first heading forms a section with an empty heading.
func splitSections(content string) []section {
	var sections []section
	var current section
	var body strings.Builder

	flush := func() {
		current.body = body.String()
		if strings.TrimSpace(current.body) != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = section{heading: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))}
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

// slideWindows cuts text into size-rune windows advancing by
// size-overlap each step.
func slideWindows(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var windows []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return windows
}
