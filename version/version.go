package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = ""
	Branch    = ""
	BuildTime = ""
)

// Info is the build description of one application.
type Info struct {
	App       string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"git_commit,omitempty"`
	Branch    string `json:"git_branch,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get describes the running binary as app. Values not set through
// ldflags are filled from the module's VCS stamp.
func Get(app string) Info {
	info := Info{
		App:       app,
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.BuildTime == "":
			info.BuildTime = s.Value
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// Short is the version with the commit appended, used as the telemetry
// service version.
func (i Info) Short() string {
	if i.Commit == "" {
		return i.Version
	}
	return i.Version + "-" + i.Commit
}

// String renders "app version (commit, branch)"; the branch is left out
// for main and master.
func (i Info) String() string {
	var refs []string
	if i.Commit != "" {
		refs = append(refs, i.Commit)
	}
	if i.Branch != "" && i.Branch != "main" && i.Branch != "master" {
		refs = append(refs, i.Branch)
	}
	s := strings.TrimSpace(fmt.Sprintf("%s %s", i.App, i.Version))
	if len(refs) > 0 {
		s += " (" + strings.Join(refs, ", ") + ")"
	}
	return s
}

// Short returns Get("").Short().
func Short() string { return Get("").Short() }
