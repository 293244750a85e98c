package ssd

import (
	"context"
	"os/exec"

	"ssdhealthagent/internal/logger"
)

// Runner executes an external diagnostic command and returns its standard
// output as a single string. Implementations must return whatever output
// was produced even when the command fails; a missing tool yields an empty
// string. Standard error is discarded.
type Runner interface {
	Run(ctx context.Context, argv ...string) string
}

// execRunner runs commands through os/exec and waits for completion.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, argv ...string) string {
	if len(argv) == 0 {
		return ""
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		// A non-zero exit status is not distinguished from success and a
		// missing binary is not distinguished from one that reported
		// nothing: whatever stdout was captured is parsed regardless, and
		// absent fields fall out as not-available.
		log := logger.WithComponent("ssd")
		log.Debug().Err(err).Str("cmd", argv[0]).Msg("Diagnostic command did not complete cleanly")
	}
	return string(out)
}
