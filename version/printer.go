package version

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Printer writes the version of app to w. The bootstrap version path calls
// it instead of starting any component.
type Printer func(w io.Writer, app string)

// Print writes one aligned line per known build attribute.
func Print(w io.Writer, app string) {
	info := Get(app)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"App", info.App},
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"Branch", info.Branch},
		{"Built", info.BuildTime},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	} {
		if row[1] != "" {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
	}
	_ = tw.Flush()
}
