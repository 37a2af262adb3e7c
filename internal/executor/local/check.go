package local

import (
	"context"
	"time"

	"github.com/google/shlex"

	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/process"
)

const checkTimeout = 5 * time.Second

// CheckRuntimes reports which language runtimes answer on this host. Languages
// with a probe use it; the others are asked for --version by their run binary.
func (e *Engine) CheckRuntimes(ctx context.Context) map[executor.Language]bool {
	env := childEnv(e.config.Env, nil)
	status := make(map[executor.Language]bool, len(e.config.Languages))

	for lang, spec := range e.config.Languages {
		cmd, ok := versionCommand(spec)
		if !ok {
			status[lang] = false
			continue
		}
		cmd.Env = env
		cmd.Timeout = checkTimeout

		out, err := e.runner.Run(ctx, cmd)
		status[lang] = err == nil && out.ExitCode == 0
	}
	return status
}

func versionCommand(spec LanguageSpec) (process.Command, bool) {
	if spec.Probe != "" {
		cmd, err := buildCommand(spec.Probe, placeholders{}, nil)
		return cmd, err == nil
	}
	fields, err := shlex.Split(spec.Run)
	if err != nil || len(fields) == 0 {
		return process.Command{}, false
	}
	return process.Command{Name: fields[0], Args: []string{"--version"}}, true
}
