package models

// MatchInfo is the fingerprint of a project folder. Signals are ordered by
// strength: git remote URL, parent directory path, folder name. An empty
// string means the signal is unknown; a record with neither git remote nor
// parent path is a legacy record migrated from the pre-fingerprint schema.
type MatchInfo struct {
	GitRemoteURL string `json:"gitRemoteUrl,omitempty"`
	ParentPath   string `json:"parentPath,omitempty"`
	FolderName   string `json:"folderName"`
}

func (m MatchInfo) IsLegacy() bool {
	return m.GitRemoteURL == "" && m.ParentPath == ""
}

func (m MatchInfo) Equal(other MatchInfo) bool {
	return m.GitRemoteURL == other.GitRemoteURL &&
		m.ParentPath == other.ParentPath &&
		m.FolderName == other.FolderName
}

// bothSet reports whether both values are known and equal.
func bothSet(a, b string) bool {
	return a != "" && b != "" && a == b
}

// MatchVerdict is the outcome of a single match rule.
type MatchVerdict int

const (
	// VerdictSkip means the rule does not apply; evaluation continues.
	VerdictSkip MatchVerdict = iota
	// VerdictAccept means the records denote the same project.
	VerdictAccept
	// VerdictReject means they are definitively different; evaluation stops.
	VerdictReject
)

// LocalRule is one named rule of the same-device identity ladder.
type LocalRule struct {
	Name string
	Eval func(old, current MatchInfo) MatchVerdict
}

// LocalRules is the ordered rule ladder behind MatchLocal. Evaluation is
// first-match-wins; order is part of the contract.
var LocalRules = []LocalRule{
	{
		// Migrated records carry only a folder name, so the name is all
		// there is to compare. A coincidental name collision matches.
		Name: "legacy-name",
		Eval: func(old, current MatchInfo) MatchVerdict {
			if !old.IsLegacy() {
				return VerdictSkip
			}
			if old.FolderName == current.FolderName {
				return VerdictAccept
			}
			return VerdictReject
		},
	},
	{
		Name: "exact",
		Eval: func(old, current MatchInfo) MatchVerdict {
			if old.Equal(current) {
				return VerdictAccept
			}
			return VerdictSkip
		},
	},
	{
		// The folder gained a git remote since last seen.
		Name: "gained-remote",
		Eval: func(old, current MatchInfo) MatchVerdict {
			if old.GitRemoteURL == "" && current.GitRemoteURL != "" &&
				bothSet(old.ParentPath, current.ParentPath) &&
				old.FolderName == current.FolderName {
				return VerdictAccept
			}
			return VerdictSkip
		},
	},
	{
		// Same remote means same project, regardless of path or name.
		Name: "remote-agreement",
		Eval: func(old, current MatchInfo) MatchVerdict {
			if bothSet(old.GitRemoteURL, current.GitRemoteURL) {
				return VerdictAccept
			}
			return VerdictSkip
		},
	},
	{
		// Renamed in place: same parent, different name, and no git
		// remote disagreement overriding the path signal.
		Name: "renamed-in-place",
		Eval: func(old, current MatchInfo) MatchVerdict {
			remoteConflict := old.GitRemoteURL != "" && current.GitRemoteURL != "" &&
				old.GitRemoteURL != current.GitRemoteURL
			if !remoteConflict &&
				bothSet(old.ParentPath, current.ParentPath) &&
				old.FolderName != current.FolderName {
				return VerdictAccept
			}
			return VerdictSkip
		},
	},
}

// MatchLocal reports whether a stored fingerprint denotes the same project
// as the current one on this device. needsUpdate signals that the stored
// fingerprint is stale and must be overwritten with current.
func MatchLocal(old, current MatchInfo) (matched, needsUpdate bool) {
	for _, rule := range LocalRules {
		switch rule.Eval(old, current) {
		case VerdictAccept:
			return true, !old.Equal(current)
		case VerdictReject:
			return false, false
		}
	}
	return false, false
}

// MatchRemote reports whether a foreign device's record describes the same
// project. Used for aggregation only, never for ownership. Absolute paths are
// never compared across devices.
func MatchRemote(remote, current MatchInfo) bool {
	if bothSet(remote.GitRemoteURL, current.GitRemoteURL) {
		return true
	}
	return remote.FolderName == current.FolderName
}
