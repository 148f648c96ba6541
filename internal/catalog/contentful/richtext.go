package contentful

import (
	"encoding/json"
	"strings"
)

// richTextNode is the recursive node shape of Contentful's rich text
// documents. Only text extraction is supported; marks and embedded entries
// are ignored.
type richTextNode struct {
	NodeType string         `json:"nodeType"`
	Value    string         `json:"value"`
	Content  []richTextNode `json:"content"`
}

// richTextToPlain flattens a rich text document to plain text. Block nodes
// become newline-separated paragraphs. Malformed or absent documents yield
// an empty string rather than an error: the description is optional.
func richTextToPlain(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var doc richTextNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}

	var blocks []string
	for _, block := range doc.Content {
		var sb strings.Builder
		collectText(block, &sb)
		if text := strings.TrimSpace(sb.String()); text != "" {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n")
}

func collectText(node richTextNode, sb *strings.Builder) {
	if node.NodeType == "text" {
		sb.WriteString(node.Value)
		return
	}
	for _, child := range node.Content {
		collectText(child, sb)
	}
}
