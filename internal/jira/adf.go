package jira

import "encoding/json"

// Node types used by the Atlassian Document Format.
const (
	NodeDoc       = "doc"
	NodeParagraph = "paragraph"
	NodeText      = "text"
)

// Document is the root of an Atlassian Document Format value.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is a block or inline ADF node.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// CommentDocument is an outbound single-paragraph document. Unlike Node,
// its text node always carries the text key, even when empty.
type CommentDocument struct {
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Content []ParagraphNode `json:"content"`
}

// ParagraphNode is an outbound paragraph of text runs.
type ParagraphNode struct {
	Type    string     `json:"type"`
	Content []TextNode `json:"content"`
}

// TextNode is an outbound text run.
type TextNode struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewParagraphDocument wraps plain text into a single-paragraph document.
func NewParagraphDocument(text string) CommentDocument {
	return CommentDocument{
		Type:    NodeDoc,
		Version: 1,
		Content: []ParagraphNode{{
			Type:    NodeParagraph,
			Content: []TextNode{{Type: NodeText, Text: text}},
		}},
	}
}

// FirstText returns the text of the first run in the first block.
// ok is false when any node on that path is missing or the text is empty.
func (d *Document) FirstText() (text string, ok bool) {
	if d == nil || len(d.Content) == 0 {
		return "", false
	}
	block := d.Content[0]
	if len(block.Content) == 0 {
		return "", false
	}
	text = block.Content[0].Text
	return text, text != ""
}

// ParseDocument decodes raw into a Document. Anything that is not a JSON
// object (null, plain strings from API v2) yields ok=false.
func ParseDocument(raw json.RawMessage) (*Document, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
