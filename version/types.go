package version

import (
	"fmt"
	"runtime"
)

// DWSinkVersion is the semver of DWSink
type DWSinkVersion struct {
	major int
	minor int
	patch int
	name  string
}

// NewDWSinkVersion creates a DWSinkVersion object
func NewDWSinkVersion() *DWSinkVersion {
	return &DWSinkVersion{
		major: DWSinkVerMajor,
		minor: DWSinkVerMinor,
		patch: DWSinkVerPatch,
		name:  DWSinkVerName,
	}
}

// Name returns the alternative name of DWSinkVersion
func (v *DWSinkVersion) Name() string {
	return v.name
}

// SemVer returns DWSinkVersion in semver format
func (v *DWSinkVersion) SemVer() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// String converts DWSinkVersion to a string
func (v *DWSinkVersion) String() string {
	return fmt.Sprintf("%s %s\n%s", v.SemVer(), v.name, NewDWSinkBuildInfo())
}

// DWSinkBuild is the info of building environment
type DWSinkBuild struct {
	GitHash   string `json:"gitHash"`
	GitRef    string `json:"gitRef"`
	GoVersion string `json:"goVersion"`
}

// NewDWSinkBuildInfo creates a DWSinkBuild object
func NewDWSinkBuildInfo() *DWSinkBuild {
	return &DWSinkBuild{
		GitHash:   GitHash,
		GitRef:    GitRef,
		GoVersion: runtime.Version(),
	}
}

// String converts DWSinkBuild to a string
func (v *DWSinkBuild) String() string {
	return fmt.Sprintf("Go Version: %s\nGit Ref: %s\nGitHash: %s", v.GoVersion, v.GitRef, v.GitHash)
}
