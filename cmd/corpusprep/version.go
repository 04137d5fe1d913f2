package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridden at link time, e.g.
// -ldflags "-X main.version=v1.2.0 -X main.commit=abc1234 -X main.date=2026-01-01".
var (
	version string
	commit  string
	date    string
)

// buildVersion identifies the running binary.
type buildVersion struct {
	Version string
	Commit  string
	Date    string
	// Modified is set when the binary was built from a dirty tree.
	Modified bool
}

func (b buildVersion) String() string {
	s := fmt.Sprintf("corpusprep version %s\n  commit: %s", b.Version, b.Commit)
	if b.Modified {
		s += " (modified)"
	}
	return s + "\n  built:  " + b.Date + "\n"
}

// currentBuild reads the linker values and falls back to the module and
// VCS data embedded by the go command.
func currentBuild() buildVersion {
	info, _ := debug.ReadBuildInfo()
	return resolveBuild(info, version, commit, date)
}

func resolveBuild(info *debug.BuildInfo, ldVersion, ldCommit, ldDate string) buildVersion {
	b := buildVersion{Version: "(devel)", Commit: "unknown", Date: "unknown"}
	if info != nil {
		if info.Main.Version != "" {
			b.Version = info.Main.Version
		}
		for _, kv := range info.Settings {
			switch kv.Key {
			case "vcs.revision":
				b.Commit = shortRevision(kv.Value)
			case "vcs.time":
				b.Date = kv.Value
			case "vcs.modified":
				b.Modified = kv.Value == "true"
			}
		}
	}

	if ldVersion != "" {
		b.Version = ldVersion
	}
	if ldCommit != "" {
		b.Commit = ldCommit
	}
	if ldDate != "" {
		b.Date = ldDate
	}
	return b
}

func shortRevision(rev string) string {
	const n = 7
	if len(rev) > n {
		return rev[:n]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), currentBuild().String())
		},
	}
}
