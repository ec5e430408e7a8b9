package sparse

import (
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// NumBuckets fixes the sparse vocabulary size. Tokens hash into this space,
// so indices are stable across processes and runs without a training pass.
const NumBuckets = 1 << 20

var _ core.SparseEmbedder = (*Encoder)(nil)

// Encoder produces lexical term-frequency vectors over the hashed
// vocabulary. It is a pure function of its input: the vector for a text
// never depends on what else has been embedded.
type Encoder struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewEncoder() *Encoder {
	return &Encoder{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Dimension returns the size of the hashed vocabulary.
func (e *Encoder) Dimension() int { return NumBuckets }

// EmbedSparse tokenizes the text, drops stopwords, hashes each token into
// its bucket and emits log-scaled, L2-normalised term frequencies sorted by
// index. Text with no usable tokens yields an empty vector; the slices stay
// non-nil so the vector always serializes as empty arrays, never null.
func (e *Encoder) EmbedSparse(text string) models.SparseVector {
	tf := make(map[uint32]int)
	for _, tok := range e.tokenize(text) {
		tf[bucket(tok)]++
	}
	if len(tf) == 0 {
		return models.SparseVector{Indices: []uint32{}, Values: []float32{}}
	}

	indices := make([]uint32, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	var norm float64
	for i, idx := range indices {
		v := 1 + math.Log(float64(tf[idx]))
		values[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range values {
		values[i] = float32(float64(values[i]) / norm)
	}

	return models.SparseVector{Indices: indices, Values: values}
}

func (e *Encoder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func bucket(token string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(token))
	return h.Sum32() % NumBuckets
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
