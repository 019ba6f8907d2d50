package lsx

import (
	"strings"

	"github.com/beevik/etree"
)

// OverlayStats counts what Overlay did
type OverlayStats struct {
	Replaced int
	Added    int
}

// Overlay lays top over a copy of base and returns the result.
// Regions and top-level nodes are matched by id. Inside a matched node,
// child nodes with the same node id and identity are replaced by top's
// version; everything else from top is appended. base and top are not
// modified.
func Overlay(base, top *Document) (*Document, OverlayStats) {
	out := base.Copy()
	var stats OverlayStats

	for _, topRegion := range top.Regions() {
		regionID := topRegion.SelectAttrValue("id", "")
		baseRegion := out.Region(regionID)
		if baseRegion == nil {
			out.Root().AddChild(topRegion.Copy())
			stats.Added += len(topRegion.SelectElements("node"))
			continue
		}
		for _, topNode := range topRegion.SelectElements("node") {
			baseNode := findByID(baseRegion.SelectElements("node"), NodeID(topNode))
			if baseNode == nil {
				baseRegion.AddChild(topNode.Copy())
				stats.Added++
				continue
			}
			overlayChildren(baseNode, topNode, &stats)
		}
	}
	return out, stats
}

func overlayChildren(baseNode, topNode *etree.Element, stats *OverlayStats) {
	topChildren := ChildNodes(topNode)
	if len(topChildren) == 0 {
		return
	}
	container := EnsureChildren(baseNode)
	for _, child := range topChildren {
		identity, ok := Identity(child)
		if ok {
			if existing := findByIdentity(container.SelectElements("node"), NodeID(child), identity); existing != nil {
				container.InsertChildAt(existing.Index(), child.Copy())
				container.RemoveChild(existing)
				stats.Replaced++
				continue
			}
		}
		container.AddChild(child.Copy())
		stats.Added++
	}
}

func findByID(nodes []*etree.Element, id string) *etree.Element {
	for _, n := range nodes {
		if NodeID(n) == id {
			return n
		}
	}
	return nil
}

func findByIdentity(nodes []*etree.Element, nodeID, identity string) *etree.Element {
	for _, n := range nodes {
		if NodeID(n) != nodeID {
			continue
		}
		if v, ok := Identity(n); ok && strings.EqualFold(v, identity) {
			return n
		}
	}
	return nil
}
