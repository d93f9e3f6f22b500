package openai

import "strings"

// maxArticleRunes bounds the article text sent to the extraction model.
const maxArticleRunes = 4000

// prepareArticle collapses whitespace runs and truncates the text to
// maxArticleRunes.
func prepareArticle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxArticleRunes {
		s = string(runes[:maxArticleRunes])
	}
	return s
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
