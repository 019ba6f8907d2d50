package merge

import (
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Layer says which kind of input produced a node
type Layer int

const (
	// LayerRace is content copied verbatim from a race archive
	LayerRace Layer = iota
	// LayerPassthrough is content copied verbatim from an appearance archive with no candidates
	LayerPassthrough
	// LayerAppearance is rewritten, retargeted appearance content
	LayerAppearance
	// LayerManifest is the generated patch descriptor
	LayerManifest
)

func (l Layer) String() string {
	switch l {
	case LayerRace:
		return "race"
	case LayerPassthrough:
		return "passthrough"
	case LayerAppearance:
		return "appearance"
	case LayerManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// Node is one file of the patch.
// Doc is set when the content has been overlaid and must be re-serialized.
type Node struct {
	Raw    []byte
	Doc    *lsx.Document
	Layer  Layer
	Origin string
	// Target is the vanilla race of the assignment that wrote the node
	Target types.Identifier

	base *Node
}

// raceBase returns the race layer file underneath n, if any
func (n Node) raceBase() *Node {
	if n.Layer == LayerRace {
		raceNode := n
		return &raceNode
	}
	return n.base
}

// Bytes returns the node's serialized content
func (n Node) Bytes() ([]byte, error) {
	if n.Doc != nil {
		return n.Doc.Bytes()
	}
	return n.Raw, nil
}

// Tree is the in-memory patch: relative slash path -> node
type Tree struct {
	nodes map[string]Node
}

// NewTree returns an empty tree
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]Node)}
}

// Put stores n at path, replacing any previous node
func (t *Tree) Put(path string, n Node) {
	t.nodes[path] = n
}

// Get returns the node at path
func (t *Tree) Get(path string) (Node, bool) {
	n, ok := t.nodes[path]
	return n, ok
}

// Remove deletes path from the tree
func (t *Tree) Remove(path string) {
	delete(t.nodes, path)
}

// Len returns the number of files
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Paths returns every path in lexical order
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.nodes))
	for p := range t.nodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Files serializes every node, keyed by path
func (t *Tree) Files() (map[string][]byte, error) {
	out := make(map[string][]byte, len(t.nodes))
	for p, n := range t.nodes {
		data, err := n.Bytes()
		if err != nil {
			return nil, err
		}
		out[p] = data
	}
	return out, nil
}
