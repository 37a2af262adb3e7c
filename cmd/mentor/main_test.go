package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/executor"
)

type fakeEngine struct {
	got executor.ExecutionRequest
	res *executor.ExecutionResult
}

func (f *fakeEngine) Execute(_ context.Context, req executor.ExecutionRequest) *executor.ExecutionResult {
	f.got = req
	return f.res
}

func (f *fakeEngine) Languages() []executor.Language {
	return append(executor.SupportedLanguages(), "ruby")
}

func (f *fakeEngine) CheckRuntimes(context.Context) map[executor.Language]bool {
	return map[executor.Language]bool{executor.Python: true, executor.Java: false}
}

type fakeAnalyzer struct{ source string }

func (f *fakeAnalyzer) Analyze(_ context.Context, source string) *analyzer.AnalysisResult {
	f.source = source
	return &analyzer.AnalysisResult{LintIssues: []analyzer.LintIssue{}, FormattedSource: source}
}

func (f *fakeAnalyzer) CheckTools(context.Context) map[string]bool {
	return map[string]bool{"flake8": true}
}

// execute runs the root command with fakes and returns stdout and the error.
func execute(t *testing.T, eng *fakeEngine, an *fakeAnalyzer, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := loadToolkit
	loadToolkit = func(io.Writer) (*toolkit, error) {
		return &toolkit{engine: eng, analyzer: an, tools: an, maxCodeLength: 100}, nil
	}
	t.Cleanup(func() {
		loadToolkit = prev
		langFlag = ""
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun_FromStdin(t *testing.T) {
	eng := &fakeEngine{res: &executor.ExecutionResult{
		Stderr:      "Traceback\n",
		ExitCode:    1,
		FailureKind: executor.FailureNone,
	}}

	out, err := execute(t, eng, &fakeAnalyzer{}, "raise SystemExit(1)", "run", "--lang", "py", "-")

	require.NoError(t, err, "a failing program is not a CLI error")
	assert.Equal(t, executor.Python, eng.got.Language)
	assert.Equal(t, "raise SystemExit(1)", eng.got.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "runtime_error", got["status"])
	assert.Equal(t, "python", got["language"])
	assert.Equal(t, "Traceback\n", got["stderr"])
}

func TestRun_LanguageFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Main.java")
	require.NoError(t, os.WriteFile(path, []byte("public class Main {}"), 0o644))
	eng := &fakeEngine{res: &executor.ExecutionResult{FailureKind: executor.FailureNone}}

	_, err := execute(t, eng, &fakeAnalyzer{}, "", "run", path)

	require.NoError(t, err)
	assert.Equal(t, executor.Java, eng.got.Language)
	assert.Equal(t, "public class Main {}", eng.got.Code)
}

func TestRun_ConfiguredLanguage(t *testing.T) {
	eng := &fakeEngine{res: &executor.ExecutionResult{FailureKind: executor.FailureNone}}

	_, err := execute(t, eng, &fakeAnalyzer{}, "puts 1", "run", "--lang", "ruby")

	require.NoError(t, err)
	assert.Equal(t, executor.Language("ruby"), eng.got.Language)
}

func TestRun_Misuse(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "unknown language", stdin: "x", args: []string{"run", "--lang", "cobol"}},
		{name: "no language for stdin", stdin: "x", args: []string{"run"}},
		{name: "empty source", stdin: "", args: []string{"run", "--lang", "python"}},
		{name: "source too long", stdin: strings.Repeat("a", 101), args: []string{"run", "--lang", "python"}},
		{name: "missing file", args: []string{"run", "--lang", "python", "/does/not/exist.py"}},
		{name: "too many args", args: []string{"run", "a.py", "b.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{}
			_, err := execute(t, eng, &fakeAnalyzer{}, tt.stdin, tt.args...)
			assert.Error(t, err)
			assert.Empty(t, eng.got.Code)
		})
	}
}

func TestAnalyze(t *testing.T) {
	an := &fakeAnalyzer{}

	out, err := execute(t, &fakeEngine{}, an, "x = 1\n", "analyze")

	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", an.source)
	assert.Contains(t, out, `"lintIssues": []`)
}

func TestTools(t *testing.T) {
	out, err := execute(t, &fakeEngine{}, &fakeAnalyzer{}, "", "tools")

	require.NoError(t, err)
	var got toolsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Runtimes[executor.Python])
	assert.False(t, got.Runtimes[executor.Java])
	assert.True(t, got.Analysis["flake8"])
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		flag string
		args []string
		want executor.Language
		ok   bool
	}{
		{flag: "JS", want: executor.JavaScript, ok: true},
		{args: []string{"main.py"}, want: executor.Python, ok: true},
		{args: []string{"app.MJS"}, want: executor.JavaScript, ok: true},
		{flag: "python", args: []string{"Main.java"}, want: executor.Python, ok: true},
		{args: []string{"notes.txt"}},
		{args: []string{"-"}},
	}

	for _, tt := range tests {
		got, err := resolveLanguage(tt.flag, tt.args, nil)
		if !tt.ok {
			assert.Error(t, err, "%q %v", tt.flag, tt.args)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
