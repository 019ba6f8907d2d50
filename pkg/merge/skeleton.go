package merge

import (
	"path"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Skeleton is the race archive race that stands in for a vanilla race
type Skeleton struct {
	VanillaID types.Identifier
	RaceID    types.Identifier
	RaceName  string
	Archive   types.ModArchive
	Folder    string
}

// indexSkeletons records, for each vanilla race, the first race archive race
// whose ParentGuid or own UUID is that vanilla race
func indexSkeletons(archive types.ModArchive, folder string, files map[string][]byte, rels []string, into map[types.Identifier]Skeleton) []error {
	var errs []error
	for _, rel := range rels {
		if !strings.EqualFold(path.Base(rel), "Races.lsx") {
			continue
		}
		doc, err := lsx.Parse(files[rel])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, decl := range doc.RaceDeclarations() {
			vanilla := decl.ParentGUID
			if !races.IsVanilla(vanilla.String()) {
				vanilla = decl.UUID
			}
			if !races.IsVanilla(vanilla.String()) {
				continue
			}
			if _, taken := into[vanilla]; taken {
				continue
			}
			into[vanilla] = Skeleton{
				VanillaID: vanilla,
				RaceID:    decl.UUID,
				RaceName:  decl.Name,
				Archive:   archive,
				Folder:    folder,
			}
		}
	}
	return errs
}
