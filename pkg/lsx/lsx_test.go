// pkg/lsx/lsx_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test LSX/LSJ parsing, identifier scans, race declarations and overlay

package lsx_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	elfID     = "6c038dcb-7eb5-431d-84f8-cecfaf1c0c5a"
	visualA   = "11111111-1111-4111-8111-111111111111"
	visualB   = "22222222-2222-4222-8222-222222222222"
	meshRef   = "33333333-3333-4333-8333-333333333333"
	customElf = "44444444-4444-4444-8444-444444444444"
)

func visualsDoc(entries ...[2]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<save>
  <version major="4" minor="0" revision="9" build="331"/>
  <region id="CharacterCreationAppearanceVisuals">
    <node id="CharacterCreationAppearanceVisuals">
      <children>
`)
	for _, e := range entries {
		b.WriteString(`        <node id="CharacterCreationAppearanceVisual">
          <attribute id="UUID" type="guid" value="` + e[0] + `"/>
          <attribute id="RaceUUID" type="guid" value="` + elfID + `"/>
          <attribute id="VisualResource" type="guid" value="` + e[1] + `"/>
        </node>
`)
	}
	b.WriteString(`      </children>
    </node>
  </region>
</save>
`)
	return b.String()
}

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := lsx.Parse([]byte(visualsDoc([2]string{visualA, meshRef})))
		require.NoError(t, err)
		require.Len(t, doc.Regions(), 1)
		assert.NotNil(t, doc.Region("CharacterCreationAppearanceVisuals"))
		assert.Len(t, doc.NodesByID("CharacterCreationAppearanceVisual"), 1)
	})

	t.Run("leading byte order mark", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(visualsDoc())...)
		_, err := lsx.Parse(data)
		assert.NoError(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := lsx.Parse([]byte("<save><<</save>"))
		assert.Error(t, err)
	})

	t.Run("wrong root", func(t *testing.T) {
		_, err := lsx.Parse([]byte("<config/>"))
		assert.Error(t, err)
	})
}

func TestIdentifiers(t *testing.T) {
	doc, err := lsx.Parse([]byte(visualsDoc([2]string{strings.ToUpper(visualA), meshRef})))
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{visualA}, doc.DeclaredIdentifiers())
	assert.ElementsMatch(t, []types.Identifier{visualA, elfID, meshRef}, doc.ReferencedIdentifiers())
}

func TestRaceDeclarations(t *testing.T) {
	data := `<save>
  <region id="Races">
    <node id="Races">
      <children>
        <node id="Race">
          <attribute id="Name" type="FixedString" value="SunElf"/>
          <attribute id="ParentGuid" type="guid" value="` + strings.ToUpper(elfID) + `"/>
          <attribute id="UUID" type="guid" value="` + customElf + `"/>
        </node>
        <node id="Race">
          <attribute id="Name" type="FixedString" value="Broken"/>
          <attribute id="UUID" type="guid" value="not-a-uuid"/>
        </node>
      </children>
    </node>
  </region>
</save>`
	doc, err := lsx.Parse([]byte(data))
	require.NoError(t, err)

	decls := doc.RaceDeclarations()
	require.Len(t, decls, 1)
	assert.Equal(t, types.Identifier(customElf), decls[0].UUID)
	assert.Equal(t, types.Identifier(elfID), decls[0].ParentGUID)
	assert.Equal(t, "SunElf", decls[0].Name)
}

func TestOverlay(t *testing.T) {
	base, err := lsx.Parse([]byte(visualsDoc([2]string{visualA, meshRef})))
	require.NoError(t, err)
	top, err := lsx.Parse([]byte(visualsDoc([2]string{visualA, visualB}, [2]string{visualB, meshRef})))
	require.NoError(t, err)

	merged, stats := lsx.Overlay(base, top)
	assert.Equal(t, 1, stats.Replaced)
	assert.Equal(t, 1, stats.Added)

	nodes := merged.NodesByID("CharacterCreationAppearanceVisual")
	require.Len(t, nodes, 2)
	res, _ := lsx.Attribute(nodes[0], "VisualResource")
	assert.Equal(t, visualB, res, "replaced node keeps its position and takes top's values")
	id, _ := lsx.Identity(nodes[1])
	assert.Equal(t, visualB, id)

	// inputs untouched
	res, _ = lsx.Attribute(base.NodesByID("CharacterCreationAppearanceVisual")[0], "VisualResource")
	assert.Equal(t, meshRef, res)
}

func TestOverlay_NewRegionIsAppended(t *testing.T) {
	base := lsx.New(lsx.DefaultVersion)
	base.AddRegion("Races")
	top, err := lsx.Parse([]byte(visualsDoc([2]string{visualA, meshRef})))
	require.NoError(t, err)

	merged, stats := lsx.Overlay(base, top)
	assert.Equal(t, 1, stats.Added)
	assert.Len(t, merged.Regions(), 2)
	assert.Len(t, base.Regions(), 1)
}

func TestSetAttribute(t *testing.T) {
	doc := lsx.New(lsx.DefaultVersion)
	region := doc.AddRegion("Config")
	node := lsx.AddNode(region, "ModuleInfo")
	lsx.EnsureChildren(node)

	lsx.SetAttribute(node, "Name", "LSString", "First")
	lsx.SetAttribute(node, "Name", "LSString", "Second")

	v, ok := lsx.Attribute(node, "Name")
	require.True(t, ok)
	assert.Equal(t, "Second", v)
	assert.Equal(t, "attribute", node.ChildElements()[0].Tag, "attributes precede <children>")

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(out), `<attribute id="Name" type="LSString" value="Second"/>`)
}

func TestJSONDocument(t *testing.T) {
	data := `{"save":{"regions":{"CharacterCreationAppearanceVisuals":{"CharacterCreationAppearanceVisual":[
		{"UUID":{"type":"guid","value":"` + visualA + `"},"RaceUUID":{"type":"guid","value":"` + strings.ToUpper(elfID) + `"}}
	]}}}}`
	doc, err := lsx.ParseJSON([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{visualA}, doc.DeclaredIdentifiers())
	assert.ElementsMatch(t, []types.Identifier{visualA, elfID}, doc.ReferencedIdentifiers())

	_, err = lsx.ParseJSON([]byte(`{"save":`))
	assert.Error(t, err)
}

func TestScanContent(t *testing.T) {
	scan, err := lsx.ScanContent("Public/Mod/CharacterCreation/Visuals.lsx", []byte(visualsDoc([2]string{visualA, meshRef})))
	require.NoError(t, err)
	assert.Equal(t, []types.Identifier{visualA}, scan.Declared)

	scan, err = lsx.ScanContent("Public/Mod/Assets/texture.dds", []byte(elfID))
	require.NoError(t, err)
	assert.Empty(t, scan.Referenced, "opaque files are not scanned")

	_, err = lsx.ScanContent("broken.lsx", []byte("<save><<"))
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, lsx.FormatLSX, lsx.FormatOf("a/B.LSX"))
	assert.Equal(t, lsx.FormatLSX, lsx.FormatOf("a/b.xml"))
	assert.Equal(t, lsx.FormatLSJ, lsx.FormatOf("a/b.lsj"))
	assert.Equal(t, lsx.FormatOther, lsx.FormatOf("a/b.gr2"))
	assert.True(t, lsx.IsStructured("x.json"))
}
