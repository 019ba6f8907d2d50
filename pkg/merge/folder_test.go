// pkg/merge/folder_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test module folder detection and path retargeting

package merge_test

import (
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/merge"
	"github.com/stretchr/testify/assert"
)

func TestModuleFolder(t *testing.T) {
	assert.Equal(t, "ElfLooks", merge.ModuleFolder([]string{
		"Public/Other/x.lsx",
		"Mods/ElfLooks/meta.lsx",
	}))
	assert.Equal(t, "Other", merge.ModuleFolder([]string{"Localization/English/a.xml", "Public/Other/x.lsx"}))
	assert.Equal(t, "", merge.ModuleFolder([]string{"readme.txt"}))
}

func TestRetarget(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"Public/ElfLooks/CharacterCreation/Visuals.lsx", "Public/SunElf/CharacterCreation/Visuals.lsx"},
		{"Mods/elflooks/Story/story.div", "Mods/SunElf/Story/story.div"},
		{"Generated/Public/ElfLooks/Assets/a.gr2", "Generated/Public/SunElf/Assets/a.gr2"},
		{"Public/Shared/Assets/a.gr2", "Public/Shared/Assets/a.gr2"},
		{"Localization/English/ElfLooks.xml", "Localization/English/ElfLooks.xml"},
		{"Public/ElfLooks", "Public/ElfLooks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, merge.Retarget(tt.rel, "ElfLooks", "SunElf"), tt.rel)
	}
	assert.Equal(t, "Public/A/x", merge.Retarget("Public/A/x", "", "B"))
}
