package version

var (
	// DWSinkVerMajor is the major version of DWSink
	DWSinkVerMajor = 0
	// DWSinkVerMinor is the minor version of DWSink
	DWSinkVerMinor = 1
	// DWSinkVerPatch is the patch version of DWSink
	DWSinkVerPatch = 0
	// DWSinkVerName is an alternative name of the version
	DWSinkVerName = "DWSink"
	// GitHash is the current git commit hash, set with -ldflags
	GitHash = "Unknown"
	// GitRef is the current git reference name (branch or tag), set with -ldflags
	GitRef = "Unknown"
)
