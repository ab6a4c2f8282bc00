// Command daily-contributor syncs a fork with its upstream, publishes a dated
// digest on a feature branch and optionally archives the run logs.
package main

import (
	"fmt"
	"os"

	"github.com/input-output-hk/daily-contributor/workflow"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(workflow.ExitCode(err))
	}
}
