package domain

const (
	// DefaultConfigFile is the name of the optional settings file.
	DefaultConfigFile = "bump.yaml"

	// MakefileName is the recipe file every recipe directory holds.
	MakefileName = "Makefile"

	// CacheLockFile is the advisory lock guarding writers of the cache directory.
	CacheLockFile = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// GraphGroup selects which recipe namespaces seed a package graph.
type GraphGroup string

const (
	// GroupBuildable holds the cross and native recipes.
	GroupBuildable GraphGroup = "buildable"
	// GroupDistributable holds the spk recipes.
	GroupDistributable GraphGroup = "distributable"
)

// Namespaces returns the recipe namespaces whose recipes are the roots of the group.
func (g GraphGroup) Namespaces() []string {
	switch g {
	case GroupDistributable:
		return []string{"spk"}
	default:
		return []string{"cross", "native"}
	}
}

// CacheKey returns the key the group's graph is persisted under.
func (g GraphGroup) CacheKey() string {
	switch g {
	case GroupDistributable:
		return "packages_spk.json"
	default:
		return "packages.json"
	}
}
