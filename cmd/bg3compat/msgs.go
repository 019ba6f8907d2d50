package bg3compat

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build compatibility patches for Baldur's Gate 3 race and appearance mods"
	MsgImportShort     = "Import archives into the workspace and extract them"
	MsgListShort       = "List imported archives and generated patches"
	MsgRemoveShort     = "Delete an imported archive and its extracted files"
	MsgClearShort      = "Delete every archive of one kind"
	MsgRacesShort      = "List the vanilla races"
	MsgGenerateShort   = "Generate a compatibility patch"
	MsgConfigShort     = "Show the effective configuration or write a config file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgImported        = "Imported %d %s archive(s)\n"
	MsgRemoved         = "Removed %s archive %s\n"
	MsgCleared         = "Removed %d %s archive(s)\n"
	MsgNoPatches       = "No patches generated yet"
	MsgPatchesHeader   = "Patches:"
	MsgConfigWritten   = "Wrote %s\n"
	MsgManWritten      = "Man pages written to %s\n"
	MsgAssignmentHint  = "  --assign %s=<race>  candidates: %s\n"
	MsgMissingAssigned = "Some appearance archives need a race:"

	// Error messages
	MsgErrBadAssign    = "--assign wants archive=race, got %q"
	MsgErrClearConfirm = "clearing deletes every %s archive, pass --yes to confirm"
	MsgErrNoSuchKind   = "unknown archive kind %q (want race or appearance)"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (default is $XDG_CONFIG_HOME/bg3compat/config.toml)"
	MsgFlagWorkspace  = "Workspace root (default is $XDG_DATA_HOME/bg3compat)"
	MsgFlagLang       = "Language for race names (en, zh)"
	MsgFlagColor      = "Color output: auto, always or never"
	MsgFlagRace       = "Race archive to include (repeatable; default all)"
	MsgFlagAppearance = "Appearance archive to include (repeatable; default all)"
	MsgFlagAssign     = "Assign an appearance archive to a vanilla race, as archive=race"
	MsgFlagPlan       = "Read assignments and manifest fields from a TOML or YAML plan"
	MsgFlagSavePlan   = "Write the plan of this run to a TOML or YAML file"
	MsgFlagName       = "Patch mod name"
	MsgFlagAuthor     = "Patch author"
	MsgFlagDesc       = "Patch description"
	MsgFlagVersion    = "Patch version, as major.minor.revision.build"
	MsgFlagUpdate     = "Existing patch folder to update"
	MsgFlagRegenUUID  = "Give the patch a new module identifier"
	MsgFlagKeepIDs    = "Keep the identifiers the appearance archives declare"
	MsgFlagDiff       = "Show a diff for every overwritten path"
	MsgFlagYes        = "Confirm the deletion"
	MsgFlagWrite      = "Write a commented config file instead of printing the effective one"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/generate-long.txt
	msgGenerateLongRaw string
	MsgGenerateLong    = strings.TrimSpace(msgGenerateLongRaw)

	//go:embed msgs/generate-example.txt
	msgGenerateExampleRaw string
	MsgGenerateExample    = strings.TrimRight(msgGenerateExampleRaw, "\n")

	//go:embed msgs/import-example.txt
	msgImportExampleRaw string
	MsgImportExample    = strings.TrimRight(msgImportExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
