// Package prosemirror extracts plain text from the rich-text document
// trees the vendor stores meeting notes in (ProseMirror JSON).
package prosemirror

import (
	"encoding/json"
	"strings"
)

// node is the recursive ProseMirror shape. Only the fields needed for
// text extraction are modelled; everything else is ignored.
type node struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Content []node `json:"content"`
}

// ExtractText flattens a notes tree to plain text.
//
// A raw JSON string is returned verbatim. Objects are walked
// depth-first in pre-order, collecting the text of every node whose
// type is "text"; fragments (including those from nested children) are
// joined with single spaces and the result is trimmed. Anything that
// is neither an object nor a string, or is empty, yields "".
func ExtractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var root node
	if err := json.Unmarshal(raw, &root); err != nil {
		return ""
	}

	var fragments []string
	collect(&root, &fragments)
	return strings.TrimSpace(strings.Join(fragments, " "))
}

// ExtractPanelText handles the shape the document listing returns:
// the last-viewed panel is an object whose "content" field holds the
// actual notes tree. When such a wrapper is present the inner tree is
// extracted; otherwise the input is treated as the tree itself.
func ExtractPanelText(raw json.RawMessage) string {
	var panel struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &panel); err == nil {
		inner := strings.TrimSpace(string(panel.Content))
		if inner != "" && (inner[0] == '{' || inner[0] == '"') {
			return ExtractText(panel.Content)
		}
	}
	return ExtractText(raw)
}

// collect walks the tree pre-order, appending text-node content.
func collect(n *node, fragments *[]string) {
	if n.Type == "text" && n.Text != "" {
		*fragments = append(*fragments, n.Text)
	}
	for i := range n.Content {
		collect(&n.Content[i], fragments)
	}
}
