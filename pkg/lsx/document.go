package lsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Version is the <version> header of an LSX document
type Version struct {
	Major, Minor, Revision, Build int
}

// DefaultVersion is the header written for new documents
var DefaultVersion = Version{Major: 4, Minor: 0, Revision: 9, Build: 331}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document wraps a parsed LSX document
type Document struct {
	doc *etree.Document
}

// Parse parses LSX bytes; the root element must be <save>
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimPrefix(data, utf8BOM)); err != nil {
		return nil, fmt.Errorf("parse lsx: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse lsx: empty document")
	}
	if root.Tag != "save" {
		return nil, fmt.Errorf("parse lsx: root element is <%s>, want <save>", root.Tag)
	}
	return &Document{doc: doc}, nil
}

// New returns an empty document with an XML declaration and version header
func New(v Version) *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	save := doc.CreateElement("save")
	ver := save.CreateElement("version")
	ver.CreateAttr("major", fmt.Sprint(v.Major))
	ver.CreateAttr("minor", fmt.Sprint(v.Minor))
	ver.CreateAttr("revision", fmt.Sprint(v.Revision))
	ver.CreateAttr("build", fmt.Sprint(v.Build))
	return &Document{doc: doc}
}

// Root returns the <save> element
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Copy returns a deep copy
func (d *Document) Copy() *Document {
	return &Document{doc: d.doc.Copy()}
}

// Bytes serializes the document with two-space indentation
func (d *Document) Bytes() ([]byte, error) {
	out := d.doc.Copy()
	out.Indent(2)
	return out.WriteToBytes()
}

// Regions returns every <region> element
func (d *Document) Regions() []*etree.Element {
	return d.Root().SelectElements("region")
}

// Region returns the region with the given id, or nil
func (d *Document) Region(id string) *etree.Element {
	for _, r := range d.Regions() {
		if r.SelectAttrValue("id", "") == id {
			return r
		}
	}
	return nil
}

// AddRegion appends a new region with the given id
func (d *Document) AddRegion(id string) *etree.Element {
	r := d.Root().CreateElement("region")
	r.CreateAttr("id", id)
	return r
}

// Nodes returns every <node> element in document order, at any depth
func (d *Document) Nodes() []*etree.Element {
	return d.Root().FindElements(".//node")
}

// NodesByID returns every node whose id attribute equals nodeID
func (d *Document) NodesByID(nodeID string) []*etree.Element {
	var out []*etree.Element
	for _, n := range d.Nodes() {
		if n.SelectAttrValue("id", "") == nodeID {
			out = append(out, n)
		}
	}
	return out
}

// Values returns every attribute value and non-blank text in the document
func (d *Document) Values() []string {
	var out []string
	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		for _, a := range el.Attr {
			out = append(out, a.Value)
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			out = append(out, text)
		}
		for _, child := range el.ChildElements() {
			visit(child)
		}
	}
	visit(d.Root())
	return out
}

// NodeID returns a node's id attribute
func NodeID(node *etree.Element) string {
	return node.SelectAttrValue("id", "")
}

// Attribute returns the value of the <attribute id=...> child of node
func Attribute(node *etree.Element, id string) (string, bool) {
	if a := attributeElement(node, id); a != nil {
		return a.SelectAttrValue("value", ""), true
	}
	return "", false
}

// SetAttribute sets or creates the <attribute id=... type=... value=...> child
func SetAttribute(node *etree.Element, id, typ, value string) {
	a := attributeElement(node, id)
	if a == nil {
		a = etree.NewElement("attribute")
		// attributes come before <children>
		if ch := node.SelectElement("children"); ch != nil {
			node.InsertChildAt(ch.Index(), a)
		} else {
			node.AddChild(a)
		}
		a.CreateAttr("id", id)
	}
	a.CreateAttr("type", typ)
	a.CreateAttr("value", value)
}

// Identity returns the node's identity attribute value
func Identity(node *etree.Element) (string, bool) {
	for _, id := range IdentityAttributes {
		if v, ok := Attribute(node, id); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ChildNodes returns the nodes inside node's <children> element
func ChildNodes(node *etree.Element) []*etree.Element {
	ch := node.SelectElement("children")
	if ch == nil {
		return nil
	}
	return ch.SelectElements("node")
}

// EnsureChildren returns node's <children> element, creating it if needed
func EnsureChildren(node *etree.Element) *etree.Element {
	if ch := node.SelectElement("children"); ch != nil {
		return ch
	}
	return node.CreateElement("children")
}

// AddNode appends a new <node id=nodeID> to parent
func AddNode(parent *etree.Element, nodeID string) *etree.Element {
	n := parent.CreateElement("node")
	n.CreateAttr("id", nodeID)
	return n
}

func attributeElement(node *etree.Element, id string) *etree.Element {
	for _, a := range node.SelectElements("attribute") {
		if a.SelectAttrValue("id", "") == id {
			return a
		}
	}
	return nil
}
