// Package visualize renders relevance scores produced by the attribution
// methods into human-readable artifacts: an HTML document with per-word
// highlighting, a word-cloud image, and notebook display wrappers.
package visualize

import (
	"sort"
	"unicode"
)

// WordRelevance pairs a word with its relevance weight. A nil weight marks
// an out-of-vocabulary word: listed for display but absent from the model's
// relevance mapping.
type WordRelevance struct {
	Word   string
	Weight *float64
}

// RelevanceTable is an ordered list of word/weight pairs. Order matters for
// deterministic rendering; use TableFromMap to build one from a plain map.
type RelevanceTable []WordRelevance

// TableFromMap builds a RelevanceTable from a word to weight map, ordered
// alphabetically so repeated runs render identically.
func TableFromMap(wts map[string]float64) RelevanceTable {
	words := make([]string, 0, len(wts))
	for word := range wts {
		words = append(words, word)
	}
	sort.Strings(words)

	table := make(RelevanceTable, 0, len(words))
	for _, word := range words {
		w := wts[word]
		table = append(table, WordRelevance{Word: word, Weight: &w})
	}
	return table
}

// Weights returns the table as a word to weight map. Entries with nil
// weights are skipped.
func (t RelevanceTable) Weights() map[string]float64 {
	m := make(map[string]float64, len(t))
	for _, wr := range t {
		if wr.Weight != nil {
			m[wr.Word] = *wr.Weight
		}
	}
	return m
}

// AssignWordRelevance aligns the listed words to their first occurrence in
// text, scanning left to right. It returns the pairs in the order the words
// appear in the text, so a renderer can walk the text once with a cursor
// that only moves forward. Words never found in the text are dropped.
//
// Matches are word-boundary aware: "cat" does not match inside "catalog".
// Each table entry is consumed at most once.
func AssignWordRelevance(text string, wts RelevanceTable) []WordRelevance {
	type located struct {
		pair WordRelevance
		pos  int
	}

	found := make([]located, 0, len(wts))
	for _, wr := range wts {
		if wr.Word == "" {
			continue
		}
		pos := indexWord(text, wr.Word, 0)
		if pos < 0 {
			continue
		}
		found = append(found, located{pair: wr, pos: pos})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]WordRelevance, 0, len(found))
	for _, l := range found {
		out = append(out, l.pair)
	}
	return out
}

// indexWord returns the byte offset of the first word-boundary occurrence of
// word in text at or after from, or -1.
func indexWord(text, word string, from int) int {
	runes := []rune(text)
	target := []rune(word)
	if len(target) == 0 {
		return -1
	}

	// Byte offset of each rune so the result indexes into text directly.
	offsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = off

	for i := 0; i+len(target) <= len(runes); i++ {
		if offsets[i] < from {
			continue
		}
		if !runesEqual(runes[i:i+len(target)], target) {
			continue
		}
		if i > 0 && isWordRune(runes[i-1]) {
			continue
		}
		if end := i + len(target); end < len(runes) && isWordRune(runes[end]) {
			continue
		}
		return offsets[i]
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
