package adapter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a generic XML element tree. Upstream feeds use wildly
// different schemas, so adapters search the tree by element name
// instead of decoding into fixed structs.
type xmlNode struct {
	name     string
	text     strings.Builder
	children []*xmlNode
}

// parseXML decodes data into a generic element tree rooted at a
// synthetic document node.
func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &xmlNode{}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}

	if len(root.children) == 0 {
		return nil, fmt.Errorf("decode xml: no root element")
	}
	return root, nil
}

// find returns the first element named name in document order, or nil.
func (n *xmlNode) find(name string) *xmlNode {
	for _, child := range n.children {
		if child.name == name {
			return child
		}
		if found := child.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findText walks names in priority order and returns the trimmed text
// content of the first element that has any.
func (n *xmlNode) findText(names ...string) string {
	for _, name := range names {
		if node := n.find(name); node != nil {
			if text := strings.TrimSpace(node.allText()); text != "" {
				return text
			}
		}
	}
	return ""
}

// allText concatenates the text of this element and its descendants.
func (n *xmlNode) allText() string {
	var b strings.Builder
	b.WriteString(n.text.String())
	for _, child := range n.children {
		b.WriteString(child.allText())
	}
	return b.String()
}
