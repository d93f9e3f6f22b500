package cluster

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// KeywordCount is the number of keywords joined into a topic label.
const KeywordCount = 3

// stopWords never qualify as keywords. Matching is case-insensitive.
var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"from", "as", "is", "was", "are", "were", "been", "be", "have", "has", "had", "do", "does",
	"did", "will", "would", "could", "should", "may", "might", "must", "shall", "can", "need",
	"dare", "ought", "used", "this", "that", "these", "those", "i", "you", "he", "she", "it",
	"we", "they", "what", "which", "who", "whom", "whose", "where", "when", "why", "how", "all",
	"each", "every", "both", "few", "more", "most", "other", "some", "such", "no", "nor", "not",
	"only", "own", "same", "so", "than", "too", "very", "just", "also", "now", "here", "there",
	"then", "once", "if", "unless", "until", "while", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "up", "down", "out", "off", "over",
	"under", "again", "further", "any", "mr", "ms", "said", "made", "one", "two", "three", "four",
	"five", "first", "second", "new", "see", "get", "got", "put", "take", "took", "make", "know",
	"think", "come", "came", "go", "went", "say", "says", "like", "well", "back", "being", "its",
	"his", "her", "him", "their", "them", "our", "your", "my",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Keywords returns up to n of the most frequent qualifying words across
// texts. A word qualifies when it is a whole word made of one ASCII capital
// followed by ASCII lowercase letters, is longer than two letters, and is not
// a stop word. Equal counts keep the order in which words were first seen.
func Keywords(texts []string, n int) []string {
	counts := make(map[string]int)
	var order []string

	for _, text := range texts {
		for _, word := range words(text) {
			if !qualifies(word) {
				continue
			}
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// Label returns the topic label for a cluster: its keywords joined with
// ", ", or "Cluster {id}" when none qualify.
func Label(id int, texts []string) string {
	keywords := Keywords(texts, KeywordCount)
	if len(keywords) == 0 {
		return fmt.Sprintf("Cluster %d", id)
	}
	return strings.Join(keywords, ", ")
}

// Topics labels clusters 0..k-1 from the texts of their members.
// labels and texts are parallel, one entry per row.
func Topics(labels []int, texts []string, k int) (map[int]string, error) {
	if len(labels) != len(texts) {
		return nil, fmt.Errorf("%w: %d labels, %d texts", ErrLengthMismatch, len(labels), len(texts))
	}

	members := make(map[int][]string, k)
	for i, c := range labels {
		members[c] = append(members[c], texts[i])
	}

	topics := make(map[int]string, k)
	for c := range k {
		topics[c] = Label(c, members[c])
	}
	return topics, nil
}

// words splits text into maximal runs of word characters: letters, digits,
// and underscore.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_')
	})
}

func qualifies(word string) bool {
	if len(word) <= 2 || stopWords[strings.ToLower(word)] {
		return false
	}
	if word[0] < 'A' || word[0] > 'Z' {
		return false
	}
	for i := 1; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}
