package local

import (
	"time"

	"github.com/sakif/coding-mentor/internal/executor"
)

// LanguageSpec declares how one language is materialised, probed, built and run.
//
// Command fields are templates tokenised like a shell command line. The
// placeholders {src} (source file path), {dir} (workspace directory) and
// {class} (Java public class name) are substituted per token after splitting,
// so paths containing spaces stay a single argument.
type LanguageSpec struct {
	// SourceFile is the file name inside the workspace, e.g. "main.py" or "{class}.java".
	SourceFile string `yaml:"sourceFile"`
	// Probe checks the runtime is reachable before anything is written. Optional.
	Probe string `yaml:"probe"`
	// Compile builds the source. Optional; a non-zero exit is a compile_error.
	Compile string `yaml:"compile"`
	// Run executes the program.
	Run string `yaml:"run"`
	// Env is appended to the child environment for every step.
	Env map[string]string `yaml:"env"`
	// MissingMessage is shown when the toolchain is not installed.
	MissingMessage string `yaml:"missingMessage"`
}

// Config holds the configuration for local execution.
type Config struct {
	// Timeout is the wall-clock budget of each probe, compile and run step.
	Timeout time.Duration `yaml:"timeout"`
	// Env is appended to the child environment for every language.
	Env map[string]string `yaml:"env"`
	// Languages maps each supported language to its toolchain.
	Languages map[executor.Language]LanguageSpec `yaml:"languages"`
}

// DefaultConfig provides the toolchains of a typical Linux host.
func DefaultConfig() Config {
	return Config{
		// 10 second limit per step
		Timeout: 10 * time.Second,
		// Children always speak UTF-8, whatever the server's locale is.
		Env: map[string]string{
			"PYTHONIOENCODING": "utf-8",
			"PYTHONUTF8":       "1",
			"LC_ALL":           "C.UTF-8",
			"LANG":             "C.UTF-8",
		},
		Languages: map[executor.Language]LanguageSpec{
			executor.Python: {
				SourceFile:     "main.py",
				Run:            "python3 {src}",
				MissingMessage: "Error: Python is not installed or not in PATH",
			},
			executor.JavaScript: {
				SourceFile:     "main.js",
				Probe:          "node --version",
				Run:            "node {src}",
				MissingMessage: "Error: Node.js is not installed or not in PATH",
			},
			executor.Java: {
				SourceFile: "{class}.java",
				Probe:      "java -version",
				Compile:    "javac -encoding UTF-8 -d {dir} {src}",
				Run:        "java -Dfile.encoding=UTF-8 -cp {dir} {class}",
				Env: map[string]string{
					"JAVA_TOOL_OPTIONS": "-Dfile.encoding=UTF-8",
				},
				MissingMessage: "Error: Java is not installed or not in PATH",
			},
		},
	}
}

// Merge overlays non-empty fields of override onto c and returns the result.
// Languages present only in override are added.
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

	out.Languages = make(map[executor.Language]LanguageSpec, len(c.Languages))
	for lang, spec := range c.Languages {
		out.Languages[lang] = spec
	}
	for lang, o := range override.Languages {
		out.Languages[lang] = mergeSpec(out.Languages[lang], o)
	}
	return out
}

func mergeSpec(base, override LanguageSpec) LanguageSpec {
	if override.SourceFile != "" {
		base.SourceFile = override.SourceFile
	}
	if override.Probe != "" {
		base.Probe = override.Probe
	}
	if override.Compile != "" {
		base.Compile = override.Compile
	}
	if override.Run != "" {
		base.Run = override.Run
	}
	if override.MissingMessage != "" {
		base.MissingMessage = override.MissingMessage
	}
	if len(override.Env) > 0 {
		env := make(map[string]string, len(base.Env)+len(override.Env))
		for k, v := range base.Env {
			env[k] = v
		}
		for k, v := range override.Env {
			env[k] = v
		}
		base.Env = env
	}
	return base
}
