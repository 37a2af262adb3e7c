package local_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coding-mentor/internal/artifact"
	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/executor/local"
	"github.com/sakif/coding-mentor/internal/process"
	"github.com/sakif/coding-mentor/internal/process/processtest"
)

// newTestEngine wires an Engine to a scripted runner and a private temp root,
// so tests can assert that nothing is left behind after Execute returns.
func newTestEngine(t *testing.T, handler processtest.HandlerFunc) (*local.Engine, *processtest.Runner, string) {
	t.Helper()
	root := t.TempDir()
	runner := &processtest.Runner{Handler: handler}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := local.New(local.DefaultConfig(), runner, artifact.NewAllocator(root), logger)
	return eng, runner, root
}

func assertNoArtifacts(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace left behind")
}

func lastArg(cmd process.Command) string {
	if len(cmd.Args) == 0 {
		return ""
	}
	return cmd.Args[len(cmd.Args)-1]
}

func TestEngine_PythonSuccess(t *testing.T) {
	var seenSource string
	eng, runner, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		data, err := os.ReadFile(lastArg(cmd))
		if err != nil {
			return nil, err
		}
		seenSource = string(data)
		return processtest.Exit(0, "x\n", ""), nil
	})

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     `print("x")`,
		Language: executor.Python,
	})

	assert.Equal(t, executor.FailureNone, res.FailureKind)
	assert.Equal(t, executor.FailureNone, res.Status())
	assert.Contains(t, res.Stdout, "x")
	assert.Empty(t, res.Stderr)
	assert.Equal(t, `print("x")`, seenSource)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Name)
	assert.Contains(t, calls[0].Env, "PYTHONIOENCODING=utf-8")
	assertNoArtifacts(t, root)
}

func TestEngine_RuntimeErrorIsNotAHarnessFailure(t *testing.T) {
	eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		return processtest.Exit(1, "", "Traceback (most recent call last):\nValueError: boom\n"), nil
	})

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     `raise ValueError("boom")`,
		Language: executor.Python,
	})

	assert.Equal(t, executor.FailureNone, res.FailureKind)
	assert.Equal(t, executor.FailureRuntimeError, res.Status())
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "ValueError")
	assertNoArtifacts(t, root)
}

func TestEngine_Timeout(t *testing.T) {
	eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		return nil, processtest.TimedOut(cmd.Name)
	})

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     "while True: pass",
		Language: executor.Python,
	})

	assert.Equal(t, executor.FailureTimeout, res.FailureKind)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, res.Stderr, "timed out")
	assertNoArtifacts(t, root)
}

func TestEngine_InterpreterMissing(t *testing.T) {
	eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		return nil, processtest.Missing(cmd.Name)
	})

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     `print("x")`,
		Language: executor.Python,
	})

	assert.Equal(t, executor.FailureToolMissing, res.FailureKind)
	assert.Contains(t, res.Stderr, "Python is not installed")
	assertNoArtifacts(t, root)
}

func TestEngine_JavaScriptProbe(t *testing.T) {
	t.Run("runtime missing skips execution", func(t *testing.T) {
		eng, runner, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
			return nil, processtest.Missing(cmd.Name)
		})

		res := eng.Execute(context.Background(), executor.ExecutionRequest{
			Code:     `console.log("x")`,
			Language: executor.JavaScript,
		})

		assert.Equal(t, executor.FailureToolMissing, res.FailureKind)
		assert.Contains(t, res.Stderr, "Node.js")
		require.Len(t, runner.Calls(), 1)
		assert.Equal(t, []string{"--version"}, runner.Calls()[0].Args)
		assertNoArtifacts(t, root)
	})

	t.Run("probe non-zero exit", func(t *testing.T) {
		eng, runner, _ := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
			return processtest.Exit(127, "", "broken install"), nil
		})

		res := eng.Execute(context.Background(), executor.ExecutionRequest{
			Code:     `console.log("x")`,
			Language: executor.JavaScript,
		})

		assert.Equal(t, executor.FailureToolMissing, res.FailureKind)
		assert.Len(t, runner.Calls(), 1)
	})

	t.Run("probe then run", func(t *testing.T) {
		eng, runner, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
			if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
				return processtest.Exit(0, "v22.0.0\n", ""), nil
			}
			return processtest.Exit(0, "x\n", ""), nil
		})

		res := eng.Execute(context.Background(), executor.ExecutionRequest{
			Code:     `console.log("x")`,
			Language: executor.JavaScript,
		})

		assert.Equal(t, executor.FailureNone, res.FailureKind)
		assert.Equal(t, "x\n", res.Stdout)
		calls := runner.Calls()
		require.Len(t, calls, 2)
		assert.True(t, strings.HasSuffix(lastArg(calls[1]), "main.js"))
		assertNoArtifacts(t, root)
	})
}

func javaHandler(compile func(cmd process.Command) (*process.Result, error)) processtest.HandlerFunc {
	return func(cmd process.Command) (*process.Result, error) {
		switch {
		case cmd.Name == "java" && len(cmd.Args) == 1 && cmd.Args[0] == "-version":
			return processtest.Exit(0, "", "openjdk version \"21\"\n"), nil
		case cmd.Name == "javac":
			return compile(cmd)
		default:
			return processtest.Exit(0, "x\n", ""), nil
		}
	}
}

func TestEngine_JavaWithoutPublicClassFailsBeforeCompiling(t *testing.T) {
	eng, runner, root := newTestEngine(t, javaHandler(func(cmd process.Command) (*process.Result, error) {
		t.Fatal("compiler must not be invoked")
		return nil, nil
	}))

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     "class Hidden { public static void main(String[] a) {} }",
		Language: executor.Java,
	})

	assert.Equal(t, executor.FailureCompileError, res.FailureKind)
	assert.Contains(t, res.Stderr, "public class")
	assert.False(t, runner.Called("javac"))
	assertNoArtifacts(t, root)
}

func TestEngine_JavaCompileErrorStopsBeforeRun(t *testing.T) {
	eng, runner, root := newTestEngine(t, javaHandler(func(cmd process.Command) (*process.Result, error) {
		return processtest.Exit(1, "", "Main.java:3: error: ';' expected\n"), nil
	}))

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     "public class Main { public static void main(String[] a) { int x = 1 } }",
		Language: executor.Java,
	})

	assert.Equal(t, executor.FailureCompileError, res.FailureKind)
	assert.Contains(t, res.Stderr, "';' expected")
	assert.Empty(t, res.Stdout)

	var javaCalls int
	for _, c := range runner.Calls() {
		if c.Name == "java" {
			javaCalls++
		}
	}
	assert.Equal(t, 1, javaCalls, "only the probe may run; the program must not")
	assertNoArtifacts(t, root)
}

func TestEngine_JavaCompileAndRun(t *testing.T) {
	var sourcePath string
	eng, runner, root := newTestEngine(t, javaHandler(func(cmd process.Command) (*process.Result, error) {
		sourcePath = lastArg(cmd)
		if _, err := os.Stat(sourcePath); err != nil {
			return nil, err
		}
		return processtest.Exit(0, "", ""), nil
	}))

	res := eng.Execute(context.Background(), executor.ExecutionRequest{
		Code:     "public final class Greeter {\n  public static void main(String[] a) { System.out.println(\"x\"); }\n}\n",
		Language: executor.Java,
	})

	assert.Equal(t, executor.FailureNone, res.FailureKind)
	assert.Equal(t, "x\n", res.Stdout)
	assert.True(t, strings.HasSuffix(sourcePath, "Greeter.java"))

	calls := runner.Calls()
	require.Len(t, calls, 3)
	run := calls[2]
	assert.Equal(t, "java", run.Name)
	assert.Contains(t, run.Args, "-cp")
	assert.Equal(t, "Greeter", lastArg(run))
	assertNoArtifacts(t, root)
}

func TestEngine_HarnessFailuresBecomeInternalError(t *testing.T) {
	t.Run("runner error", func(t *testing.T) {
		eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
			return nil, errors.New("fork/exec: resource temporarily unavailable")
		})

		res := eng.Execute(context.Background(), executor.ExecutionRequest{Code: "print(1)", Language: executor.Python})

		assert.Equal(t, executor.FailureInternalError, res.FailureKind)
		assert.Contains(t, res.Stderr, "resource temporarily unavailable")
		assertNoArtifacts(t, root)
	})

	t.Run("panic", func(t *testing.T) {
		eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
			panic("runner exploded")
		})

		res := eng.Execute(context.Background(), executor.ExecutionRequest{Code: "print(1)", Language: executor.Python})

		assert.Equal(t, executor.FailureInternalError, res.FailureKind)
		assert.Contains(t, res.Stderr, "runner exploded")
		assertNoArtifacts(t, root)
	})

	t.Run("unsupported language", func(t *testing.T) {
		eng, runner, _ := newTestEngine(t, nil)

		res := eng.Execute(context.Background(), executor.ExecutionRequest{Code: "puts 1", Language: "ruby"})

		assert.Equal(t, executor.FailureInternalError, res.FailureKind)
		assert.Empty(t, runner.Calls())
	})
}

func TestEngine_ConcurrentRunsDoNotCrossContaminate(t *testing.T) {
	// The fake interpreter echoes the file it was asked to run.
	eng, _, root := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		data, err := os.ReadFile(lastArg(cmd))
		if err != nil {
			return nil, err
		}
		return processtest.Exit(0, string(data), ""), nil
	})

	const n = 32
	results := make([]*executor.ExecutionResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = eng.Execute(context.Background(), executor.ExecutionRequest{
				Code:     fmt.Sprintf("print(%d)", i),
				Language: executor.Python,
			})
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.Equal(t, executor.FailureNone, res.FailureKind)
		assert.Equal(t, fmt.Sprintf("print(%d)", i), res.Stdout)
	}
	assertNoArtifacts(t, root)
}

func TestEngine_CheckRuntimes(t *testing.T) {
	eng, _, _ := newTestEngine(t, func(cmd process.Command) (*process.Result, error) {
		if cmd.Name == "node" {
			return nil, processtest.Missing(cmd.Name)
		}
		return processtest.Exit(0, "ok", ""), nil
	})

	status := eng.CheckRuntimes(context.Background())

	assert.True(t, status[executor.Python])
	assert.False(t, status[executor.JavaScript])
	assert.True(t, status[executor.Java])
}

func TestEngine_Languages(t *testing.T) {
	cfg := local.DefaultConfig().Merge(local.Config{
		Languages: map[executor.Language]local.LanguageSpec{
			"ruby": {SourceFile: "main.rb", Run: "ruby {src}"},
		},
	})
	eng := local.New(cfg, &processtest.Runner{}, artifact.NewAllocator(t.TempDir()),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t,
		[]executor.Language{executor.Python, executor.JavaScript, executor.Java, "ruby"},
		eng.Languages())
}
