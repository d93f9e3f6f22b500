package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/poiesic/factmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeText(t *testing.T) {
	tests := []struct {
		name                    string
		title, summary, article string
		want                    string
	}{
		{"all parts", "Title", "Summary", "Body", "Title Summary Body"},
		{"missing summary", "Title", "", "Body", "Title Body"},
		{"only article", "", "", "Body", "Body"},
		{"nothing", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeText(tt.title, tt.summary, tt.article))
		})
	}
}

func TestComposeText_TruncatesArticleByRunes(t *testing.T) {
	article := strings.Repeat("é", ArticleRuneLimit+50)

	got := ComposeText("T", "", article)

	require.True(t, utf8.ValidString(got))
	assert.Equal(t, ArticleRuneLimit+2, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(got, "T é"))
}

func TestRowTexts(t *testing.T) {
	table, err := core.NewTable(
		[]string{core.ColTitle, core.ColArticleText},
		[][]string{{"One", "first body"}, {"Two", ""}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"One first body", "Two"}, RowTexts(table))
}
