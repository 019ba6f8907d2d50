package merge

import (
	"path"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/manifest"
)

// moduleRoots are the path prefixes followed by a module folder segment
var moduleRoots = [][]string{
	{"Public"},
	{"Mods"},
	{"Generated", "Public"},
}

// ModuleFolder guesses an archive's module folder from its file list:
// the folder holding Mods/<Folder>/meta.lsx, else the first Public/<Folder>.
func ModuleFolder(rels []string) string {
	for _, rel := range rels {
		if manifest.IsDescriptorPath(rel) {
			return strings.Split(rel, "/")[1]
		}
	}
	for _, rel := range rels {
		parts := strings.Split(rel, "/")
		if len(parts) >= 3 && parts[0] == "Public" {
			return parts[1]
		}
	}
	return ""
}

// Retarget moves rel from module folder from to module folder to.
// Paths outside a module root, or in another module's folder, are returned
// unchanged.
func Retarget(rel, from, to string) string {
	if from == "" || to == "" || from == to {
		return rel
	}
	parts := strings.Split(rel, "/")
	for _, root := range moduleRoots {
		if len(parts) <= len(root)+1 {
			continue
		}
		if !hasPrefix(parts, root) {
			continue
		}
		if strings.EqualFold(parts[len(root)], from) {
			parts[len(root)] = to
			return path.Join(parts...)
		}
	}
	return rel
}

func hasPrefix(parts, prefix []string) bool {
	for i, p := range prefix {
		if parts[i] != p {
			return false
		}
	}
	return true
}
