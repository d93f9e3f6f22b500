package embedding

import (
	"strings"

	"github.com/poiesic/factmap/core"
)

// ArticleRuneLimit is how much of the article text contributes to a row's
// embedding text.
const ArticleRuneLimit = 2000

// ComposeText joins the non-empty title, summary and the first
// ArticleRuneLimit runes of the article text with single spaces.
func ComposeText(title, summary, article string) string {
	parts := make([]string, 0, 3)
	if title != "" {
		parts = append(parts, title)
	}
	if summary != "" {
		parts = append(parts, summary)
	}
	if article != "" {
		parts = append(parts, truncateRunes(article, ArticleRuneLimit))
	}
	return strings.Join(parts, " ")
}

// RowTexts composes the embedding text of every row of t.
// Absent columns contribute nothing.
func RowTexts(t *core.Table) []string {
	texts := make([]string, t.Len())
	for i := range texts {
		title, _ := t.Get(i, core.ColTitle)
		summary, _ := t.Get(i, core.ColSummary)
		article, _ := t.Get(i, core.ColArticleText)
		texts[i] = ComposeText(title, summary, article)
	}
	return texts
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
