package analyzer

import (
	"context"
	"log/slog"
	"strings"
)

// format asks the formatter for a diff over stdin. A non-empty diff means the
// source needs formatting and a second run produces the formatted text.
// Formatting is advisory: every failure reports the source as already fine or,
// after a diff was seen, returns it unchanged.
func (p *Pipeline) format(ctx context.Context, source string) (bool, string) {
	diff, err := p.run(ctx, p.config.Tools.FormatCheck, "", source)
	if err != nil {
		p.logger.Warn("format check unavailable", slog.String("error", err.Error()))
		return false, source
	}
	if strings.TrimSpace(diff.Stdout) == "" {
		return false, source
	}

	out, err := p.run(ctx, p.config.Tools.Format, "", source)
	if err != nil {
		p.logger.Warn("formatter failed", slog.String("error", err.Error()))
		return true, source
	}
	if out.ExitCode != 0 {
		p.logger.Debug("formatter rejected source", slog.Int("exit_code", out.ExitCode))
		return true, source
	}
	return true, out.Stdout
}
