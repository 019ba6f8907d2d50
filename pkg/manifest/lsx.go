package manifest

import (
	"strconv"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/beevik/etree"
)

const regenerateAttribute = "RegenerateUUID"

// Render serializes m as a meta.lsx document
func Render(m PatchManifest) ([]byte, error) {
	v64, err := Version64(m.Version)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "invalid version for %s", m.ModName)
	}
	if _, err := types.ParseIdentifier(m.UUID.String()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "invalid package identifier for %s", m.ModName)
	}

	doc := lsx.New(lsx.DefaultVersion)
	config := doc.AddRegion("Config")
	root := lsx.AddNode(config, "root")
	children := lsx.EnsureChildren(root)

	deps := lsx.EnsureChildren(lsx.AddNode(children, "Dependencies"))
	for _, s := range m.Sources {
		if s.UUID.IsZero() {
			continue
		}
		dep := lsx.AddNode(deps, "ModuleShortDesc")
		lsx.SetAttribute(dep, "Folder", "LSString", s.Folder)
		lsx.SetAttribute(dep, "MD5", "LSString", "")
		lsx.SetAttribute(dep, "Name", "LSString", s.Name)
		lsx.SetAttribute(dep, "UUID", "FixedString", s.UUID.String())
		depVersion := int64(0)
		if s.Version != "" {
			if n, err := Version64(s.Version); err == nil {
				depVersion = n
			}
		}
		lsx.SetAttribute(dep, "Version64", "int64", strconv.FormatInt(depVersion, 10))
	}

	info := lsx.AddNode(children, "ModuleInfo")
	lsx.SetAttribute(info, "Author", "LSString", m.Author)
	lsx.SetAttribute(info, "CharacterCreationLevelName", "FixedString", "")
	lsx.SetAttribute(info, "Description", "LSString", m.Description)
	lsx.SetAttribute(info, "Folder", "LSString", m.Folder)
	lsx.SetAttribute(info, "LevelName", "FixedString", "")
	lsx.SetAttribute(info, "MD5", "LSString", "")
	lsx.SetAttribute(info, "Name", "LSString", m.ModName)
	lsx.SetAttribute(info, "NumPlayers", "uint8", "4")
	lsx.SetAttribute(info, "PhotoBooth", "FixedString", "")
	if m.RegenerateUUID {
		// not read by the game; remembers the user's choice across runs
		lsx.SetAttribute(info, regenerateAttribute, "bool", "true")
	}
	lsx.SetAttribute(info, "StartupLevelName", "FixedString", "")
	lsx.SetAttribute(info, "Tags", "LSString", "")
	lsx.SetAttribute(info, "Type", "FixedString", "Add-on")
	lsx.SetAttribute(info, "UUID", "FixedString", m.UUID.String())
	lsx.SetAttribute(info, "Version64", "int64", strconv.FormatInt(v64, 10))

	infoChildren := lsx.EnsureChildren(info)
	publish := lsx.AddNode(infoChildren, "PublishVersion")
	lsx.SetAttribute(publish, "Version64", "int64", strconv.FormatInt(v64, 10))
	modes := lsx.EnsureChildren(lsx.AddNode(infoChildren, "TargetModes"))
	target := lsx.AddNode(modes, "Target")
	lsx.SetAttribute(target, "Object", "FixedString", "Story")

	return doc.Bytes()
}

// Parse reads a meta.lsx document into a manifest with Exists set
func Parse(data []byte) (*PatchManifest, error) {
	doc, err := lsx.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifest, "malformed meta.lsx")
	}
	infos := doc.NodesByID("ModuleInfo")
	if len(infos) == 0 {
		return nil, errors.New(errors.ErrManifest, "meta.lsx has no ModuleInfo node")
	}
	info := infos[0]

	m := &PatchManifest{Exists: true}
	m.ModName, _ = lsx.Attribute(info, "Name")
	m.Author, _ = lsx.Attribute(info, "Author")
	m.Description, _ = lsx.Attribute(info, "Description")
	m.Folder, _ = lsx.Attribute(info, "Folder")
	if raw, ok := lsx.Attribute(info, "UUID"); ok {
		id, err := types.ParseIdentifier(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifest, "meta.lsx has an invalid UUID")
		}
		m.UUID = id
	}
	m.Version = versionOf(info)
	if raw, ok := lsx.Attribute(info, regenerateAttribute); ok {
		m.RegenerateUUID, _ = strconv.ParseBool(raw)
	}

	for _, dep := range doc.NodesByID("ModuleShortDesc") {
		s := Source{}
		s.Name, _ = lsx.Attribute(dep, "Name")
		s.Folder, _ = lsx.Attribute(dep, "Folder")
		if raw, ok := lsx.Attribute(dep, "UUID"); ok {
			if id, err := types.ParseIdentifier(raw); err == nil {
				s.UUID = id
			}
		}
		s.Version = versionOf(dep)
		m.Sources = append(m.Sources, s)
	}
	return m, nil
}

func versionOf(node *etree.Element) string {
	for _, id := range []string{"Version64", "Version"} {
		raw, ok := lsx.Attribute(node, id)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if id == "Version" {
			// pre-Version64 descriptors store a packed int32
			return Version{Major: n >> 28, Minor: (n >> 24) & 0xF, Revision: (n >> 16) & 0xFF, Build: n & 0xFFFF}.String()
		}
		return FromVersion64(n).String()
	}
	return ""
}
