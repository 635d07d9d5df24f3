package jira_test

import (
	"encoding/json"
	"testing"

	"github.com/gi8lino/ticketbridge/internal/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParagraphDocument(t *testing.T) {
	t.Parallel()

	t.Run("marshals to the exact ADF shape", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(jira.NewParagraphDocument("Fixed in 1.2.3"))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"Fixed in 1.2.3"}]}]}`,
			string(raw),
		)
	})

	t.Run("empty text keeps the text node", func(t *testing.T) {
		t.Parallel()

		doc := jira.NewParagraphDocument("")
		require.Len(t, doc.Content, 1)
		require.Len(t, doc.Content[0].Content, 1)
		assert.Equal(t, jira.NodeText, doc.Content[0].Content[0].Type)

		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":""}]}]}`,
			string(raw),
		)
	})

	t.Run("round trips through the parser", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(jira.NewParagraphDocument("Gateway restarted"))
		require.NoError(t, err)

		doc, ok := jira.ParseDocument(raw)
		require.True(t, ok)
		text, ok := doc.FirstText()
		assert.True(t, ok)
		assert.Equal(t, "Gateway restarted", text)
	})
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("first paragraph first run", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"type":"doc","version":1,"content":[
			{"type":"paragraph","content":[{"type":"text","text":"first"},{"type":"text","text":"second"}]},
			{"type":"paragraph","content":[{"type":"text","text":"other"}]}
		]}`)
		doc, ok := jira.ParseDocument(raw)
		require.True(t, ok)

		text, ok := doc.FirstText()
		assert.True(t, ok)
		assert.Equal(t, "first", text)
	})

	t.Run("missing nodes", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			`{"type":"doc","version":1}`,
			`{"type":"doc","version":1,"content":[]}`,
			`{"type":"doc","version":1,"content":[{"type":"paragraph"}]}`,
			`{"type":"doc","version":1,"content":[{"type":"rule","content":[{"type":"hardBreak"}]}]}`,
			`null`,
		} {
			doc, _ := jira.ParseDocument(json.RawMessage(raw))
			_, ok := doc.FirstText()
			assert.False(t, ok, raw)
		}
	})

	t.Run("plain string body is not a document", func(t *testing.T) {
		t.Parallel()

		doc, ok := jira.ParseDocument(json.RawMessage(`"plain v2 body"`))
		assert.False(t, ok)
		assert.Nil(t, doc)
	})

	t.Run("empty raw", func(t *testing.T) {
		t.Parallel()

		doc, ok := jira.ParseDocument(nil)
		assert.False(t, ok)
		assert.Nil(t, doc)
	})
}
