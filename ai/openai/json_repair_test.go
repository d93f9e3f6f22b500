package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid json unchanged",
			input:    `{"targets":[{"name":"A","type":"person","importance":9}]}`,
			expected: `{"targets":[{"name":"A","type":"person","importance":9}]}`,
		},
		{
			name:     "missing opening quote after brace",
			input:    `{targets":[]}`,
			expected: `{"targets":[]}`,
		},
		{
			name:     "missing opening quote after comma",
			input:    `{"name":"A", type":"person"}`,
			expected: `{"name":"A", "type":"person"}`,
		},
		{
			name:     "trailing commas",
			input:    "{\"targets\":[{\"name\":\"A\",},\n]}",
			expected: "{\"targets\":[{\"name\":\"A\"}\n]}",
		},
		{
			name:     "string content untouched",
			input:    `{"name":"Tan, Lee\", x\":1,}"}`,
			expected: `{"name":"Tan, Lee\", x\":1,}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := repairJSON(tt.input)
			assert.Equal(t, tt.expected, result)

			var v any
			require.NoError(t, json.Unmarshal([]byte(result), &v))
		})
	}
}

func TestPrepareArticle(t *testing.T) {
	assert.Equal(t, "a b c", prepareArticle("  a\n\tb   c "))
	assert.Equal(t, "", prepareArticle(" \n "))

	long := make([]rune, maxArticleRunes+10)
	for i := range long {
		long[i] = 'é'
	}
	assert.Len(t, []rune(prepareArticle(string(long))), maxArticleRunes)
}
