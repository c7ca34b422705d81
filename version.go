package cdkverifier

import (
	"fmt"
	"io"
	"runtime"
)

// Populated during build, don't touch!
var (
	Version   = "v0.1.0"
	GitRev    = "undefined"
	GitBranch = "undefined"
	BuildDate = "Sat, 01 Jan 2000 00:00:00 +0000"
)

// PrintVersion prints version info into the provided io.Writer.
func PrintVersion(w io.Writer) {
	fmt.Fprint(w, GetVersion().String())
}

// FullVersion describes the running binary.
type FullVersion struct {
	Version   string `json:"version"`
	GitRev    string `json:"gitRev"`
	GitBranch string `json:"gitBranch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func GetVersion() FullVersion {
	return FullVersion{
		Version:   Version,
		GitRev:    GitRev,
		GitBranch: GitBranch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// KeysAndValues returns the version as key/value pairs for structured logging.
// The version itself is left out, every logger already carries it.
func (f FullVersion) KeysAndValues() []interface{} {
	return []interface{}{
		"gitRevision", f.GitRev,
		"gitBranch", f.GitBranch,
		"goVersion", f.GoVersion,
		"built", f.BuildDate,
		"os/arch", fmt.Sprintf("%s/%s", f.OS, f.Arch),
	}
}

func (f FullVersion) String() string {
	return fmt.Sprintf("Version:      %s\n"+
		"Git revision: %s\n"+
		"Git branch:   %s\n"+
		"Go version:   %s\n"+
		"Built:        %s\n"+
		"OS/Arch:      %s/%s\n",
		f.Version, f.GitRev, f.GitBranch,
		f.GoVersion, f.BuildDate, f.OS, f.Arch)
}
