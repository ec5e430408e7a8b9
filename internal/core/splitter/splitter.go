package splitter

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the boundary priority used for knowledge-base
// documents: paragraph, line, sentence, word, and finally a hard cut.
var DefaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Splitter cuts text into chunks of at most chunkSize runes, preferring the
// highest-priority separator present in the text and carrying an overlap of
// up to overlap runes from the tail of one chunk into the head of the next.
//
// Splitting is recomputed from scratch on every call; the splitter holds no
// state between documents.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// New returns a splitter with the default separator priority. overlap must
// be smaller than chunkSize; values are clamped to sane minimums.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, separators: DefaultSeparators}
}

// Split returns the ordered chunk texts for the document. Separators stay
// attached to the piece they terminate, so concatenating the non-overlapping
// part of every chunk reproduces the input exactly. Empty input yields no
// chunks; no chunk is ever empty.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, seps []string) []string {
	sep := ""
	var rest []string
	for i, cand := range seps {
		if cand == "" {
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		// No separator left: cut on rune boundaries.
		return s.hardSplit(text)
	}

	var (
		final []string
		good  []string
	)
	for _, piece := range splitAfter(text, sep) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		// Oversized piece: flush what fits, then descend a separator level.
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		final = append(final, s.split(piece, rest)...)
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge packs consecutive pieces into chunks of at most chunkSize runes.
// When a chunk is emitted, pieces are dropped from the front of the window
// until at most overlap runes remain; those survivors seed the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var (
		chunks []string
		window []string
		total  int
	)
	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n > s.chunkSize && total > 0 {
			chunks = append(chunks, strings.Join(window, ""))
			for len(window) > 0 && (total > s.overlap || total+n > s.chunkSize) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += n
	}
	if total > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}

// hardSplit cuts text into chunkSize windows advancing by chunkSize-overlap
// runes, so adjacent windows share exactly overlap runes.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step < 1 {
		step = s.chunkSize
	}
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// splitAfter splits on sep keeping the separator attached to the preceding
// piece, dropping the empty tail SplitAfter produces when text ends in sep.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
