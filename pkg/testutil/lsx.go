package testutil

import (
	"fmt"
	"strings"
)

// Vanilla race ids used across tests
const (
	HumanID    = "0eb594cb-8820-4be6-a58d-8be7a1a98fba"
	ElfID      = "6c038dcb-7eb5-431d-84f8-cecfaf1c0c5a"
	DwarfID    = "0ab2874d-cfdc-405e-8a97-d37bfbb23c52"
	TieflingID = "b6dccbed-30f3-424b-a181-c4540cf38197"
)

// RaceNode describes one <node id="Race"> in a Races.lsx fixture
type RaceNode struct {
	UUID       string
	Name       string
	ParentGUID string
}

// Visual describes one appearance entry in a visuals fixture
type Visual struct {
	UUID     string
	RaceUUID string
	Resource string
}

const lsxHeader = `<?xml version="1.0" encoding="UTF-8"?>
<save>
  <version major="4" minor="0" revision="9" build="331"/>
`

// RacesLSX renders a Races.lsx document
func RacesLSX(racesIn ...RaceNode) string {
	var b strings.Builder
	b.WriteString(lsxHeader)
	b.WriteString("  <region id=\"Races\">\n    <node id=\"Races\">\n      <children>\n")
	for _, r := range racesIn {
		b.WriteString("        <node id=\"Race\">\n")
		fmt.Fprintf(&b, "          <attribute id=\"Name\" type=\"FixedString\" value=%q/>\n", r.Name)
		if r.ParentGUID != "" {
			fmt.Fprintf(&b, "          <attribute id=\"ParentGuid\" type=\"guid\" value=%q/>\n", r.ParentGUID)
		}
		fmt.Fprintf(&b, "          <attribute id=\"UUID\" type=\"guid\" value=%q/>\n", r.UUID)
		b.WriteString("        </node>\n")
	}
	b.WriteString("      </children>\n    </node>\n  </region>\n</save>\n")
	return b.String()
}

// VisualsLSX renders a CharacterCreationAppearanceVisuals document
func VisualsLSX(visuals ...Visual) string {
	var b strings.Builder
	b.WriteString(lsxHeader)
	b.WriteString("  <region id=\"CharacterCreationAppearanceVisuals\">\n")
	b.WriteString("    <node id=\"CharacterCreationAppearanceVisuals\">\n      <children>\n")
	for _, v := range visuals {
		b.WriteString("        <node id=\"CharacterCreationAppearanceVisual\">\n")
		fmt.Fprintf(&b, "          <attribute id=\"RaceUUID\" type=\"guid\" value=%q/>\n", v.RaceUUID)
		fmt.Fprintf(&b, "          <attribute id=\"UUID\" type=\"guid\" value=%q/>\n", v.UUID)
		if v.Resource != "" {
			fmt.Fprintf(&b, "          <attribute id=\"VisualResource\" type=\"guid\" value=%q/>\n", v.Resource)
		}
		b.WriteString("        </node>\n")
	}
	b.WriteString("      </children>\n    </node>\n  </region>\n</save>\n")
	return b.String()
}

// MetaLSX renders a minimal meta.lsx for a mod folder
func MetaLSX(folder, name, uuid string) string {
	var b strings.Builder
	b.WriteString(lsxHeader)
	b.WriteString("  <region id=\"Config\">\n    <node id=\"root\">\n      <children>\n")
	b.WriteString("        <node id=\"ModuleInfo\">\n")
	fmt.Fprintf(&b, "          <attribute id=\"Folder\" type=\"LSString\" value=%q/>\n", folder)
	fmt.Fprintf(&b, "          <attribute id=\"Name\" type=\"LSString\" value=%q/>\n", name)
	fmt.Fprintf(&b, "          <attribute id=\"UUID\" type=\"FixedString\" value=%q/>\n", uuid)
	b.WriteString("        </node>\n")
	b.WriteString("      </children>\n    </node>\n  </region>\n</save>\n")
	return b.String()
}
