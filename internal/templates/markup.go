package templates

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
)

// markupNode is an element (name set) or a run of character data.
type markupNode struct {
	name     string // local name, namespace stripped
	text     string
	children []*markupNode
}

func (n *markupNode) isElement() bool {
	return n.name != ""
}

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%]+)\s+(?:"([^"]*)"|'([^']*)')`)

// parseMarkup builds an element tree from well-formed XML. Entities declared
// in an internal DOCTYPE subset (common in exported SVG) are honoured, as are
// the HTML named entities.
func parseMarkup(markup string) (*markupNode, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Entity = make(map[string]string, len(xml.HTMLEntity))
	for name, value := range xml.HTMLEntity {
		dec.Entity[name] = value
	}

	var (
		root  *markupNode
		stack []*markupNode
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &markupNode{name: t.Name.Local}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			case root == nil:
				root = node
			default:
				return nil, errors.New("multiple root elements")
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errors.New("character data outside root element")
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &markupNode{text: string(t)})

		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(t), -1) {
				dec.Entity[m[1]] = m[2] + m[3]
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

// innerText concatenates character data below n in document order.
// Content of style and script elements is skipped.
func innerText(n *markupNode) string {
	var sb strings.Builder
	var walk func(*markupNode)
	walk = func(node *markupNode) {
		if !node.isElement() {
			sb.WriteString(node.text)
			return
		}
		if node.name == "style" || node.name == "script" {
			return
		}
		for _, child := range node.children {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// findElements returns every element below and including n with the given
// local name, in document order.
func findElements(n *markupNode, name string) []*markupNode {
	var found []*markupNode
	var walk func(*markupNode)
	walk = func(node *markupNode) {
		if !node.isElement() {
			return
		}
		if node.name == name {
			found = append(found, node)
		}
		for _, child := range node.children {
			walk(child)
		}
	}
	walk(n)
	return found
}

// childElement returns the first direct child element with the given name.
func childElement(n *markupNode, name string) *markupNode {
	for _, child := range n.children {
		if child.isElement() && child.name == name {
			return child
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
