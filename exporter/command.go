package exporter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spaghettifunk/meshport/exporter/core"
)

// PathToken is the literal placeholder users put into the post-export
// command; every occurrence is replaced with the absolute output path.
const PathToken = "STLFILE"

// buildCommandArgs splits the configured command and substitutes the
// output path. When the token appears nowhere, the path is appended as a
// final argument instead.
func buildCommandArgs(command, outputPath string) ([]string, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post-export command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, nil
	}

	substituted := false
	for i, a := range args {
		if strings.Contains(a, PathToken) {
			args[i] = strings.ReplaceAll(a, PathToken, outputPath)
			substituted = true
		}
	}
	if !substituted {
		args = append(args, outputPath)
	}
	return args, nil
}

// runPostCommand launches the configured command and blocks until it
// finishes. Output is captured into the log. A failing command is an
// error for the caller to report; the exported file stays on disk.
func runPostCommand(ctx context.Context, command, outputPath string) error {
	args, err := buildCommandArgs(command, outputPath)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	core.LogInfo("running post-export command: %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var b bytes.Buffer
	cmd.Stdout = &b
	cmd.Stderr = &b

	if err := cmd.Run(); err != nil {
		if b.Len() > 0 {
			core.LogError("post-export command output:\n%s", b.String())
		}
		return fmt.Errorf("post-export command failed: %w", err)
	}
	if b.Len() > 0 {
		core.LogDebug("post-export command output:\n%s", b.String())
	}
	return nil
}
