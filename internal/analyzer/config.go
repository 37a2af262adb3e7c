package analyzer

import "time"

// Tools are the command templates of each analysis step. {src} is replaced by
// the path of the temporary source file after the template is tokenised.
type Tools struct {
	Lint        string `yaml:"lint"`
	LintText    string `yaml:"lintText"`
	FormatCheck string `yaml:"formatCheck"`
	Format      string `yaml:"format"`
	Complexity  string `yaml:"complexity"`
	Maintain    string `yaml:"maintainability"`
}

// Config holds the configuration of a Pipeline.
type Config struct {
	// Timeout bounds every single tool invocation.
	Timeout time.Duration `yaml:"timeout"`
	// Env is appended to the child environment of every tool.
	Env   map[string]string `yaml:"env"`
	Tools Tools             `yaml:"tools"`
}

// DefaultConfig uses flake8, black and radon from PATH.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Env: map[string]string{
			"PYTHONIOENCODING": "utf-8",
			"PYTHONUTF8":       "1",
		},
		Tools: Tools{
			Lint:        "flake8 --format=json {src}",
			LintText:    "flake8 {src}",
			FormatCheck: "black --diff -q -",
			Format:      "black -q -",
			Complexity:  "radon cc -j {src}",
			Maintain:    "radon mi -j {src}",
		},
	}
}

// Merge overlays the non-empty fields of override onto c.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Timeout > 0 {
		out.Timeout = override.Timeout
	}

	out.Env = make(map[string]string, len(c.Env)+len(override.Env))
	for k, v := range c.Env {
		out.Env[k] = v
	}
	for k, v := range override.Env {
		out.Env[k] = v
	}

	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.Tools.Lint, override.Tools.Lint)
	pick(&out.Tools.LintText, override.Tools.LintText)
	pick(&out.Tools.FormatCheck, override.Tools.FormatCheck)
	pick(&out.Tools.Format, override.Tools.Format)
	pick(&out.Tools.Complexity, override.Tools.Complexity)
	pick(&out.Tools.Maintain, override.Tools.Maintain)
	return out
}
