package analyzer

import (
	"context"
	"time"

	"github.com/google/shlex"

	"github.com/sakif/coding-mentor/internal/process"
)

const checkTimeout = 5 * time.Second

// CheckTools reports which analysis tools answer --version, keyed by binary
// name (flake8, black, radon with the default configuration).
func (p *Pipeline) CheckTools(ctx context.Context) map[string]bool {
	status := make(map[string]bool)
	for _, tpl := range []string{
		p.config.Tools.Lint,
		p.config.Tools.FormatCheck,
		p.config.Tools.Complexity,
	} {
		fields, err := shlex.Split(tpl)
		if err != nil || len(fields) == 0 {
			continue
		}
		name := fields[0]
		if _, seen := status[name]; seen {
			continue
		}
		out, err := p.runner.Run(ctx, process.Command{
			Name:    name,
			Args:    []string{"--version"},
			Env:     p.env,
			Timeout: checkTimeout,
		})
		status[name] = err == nil && out.ExitCode == 0
	}
	return status
}
