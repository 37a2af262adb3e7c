package local

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/shlex"

	"github.com/sakif/coding-mentor/internal/process"
)

// placeholders are the values substituted into command templates.
type placeholders struct {
	src   string
	dir   string
	class string
}

func (p placeholders) expand(token string) string {
	r := strings.NewReplacer("{src}", p.src, "{dir}", p.dir, "{class}", p.class)
	return r.Replace(token)
}

// buildCommand tokenises tpl and substitutes placeholders into each token.
func buildCommand(tpl string, vars placeholders, env []string) (process.Command, error) {
	fields, err := shlex.Split(tpl)
	if err != nil {
		return process.Command{}, fmt.Errorf("local: parsing command template %q: %w", tpl, err)
	}
	if len(fields) == 0 {
		return process.Command{}, fmt.Errorf("local: command template %q is empty", tpl)
	}
	for i, f := range fields {
		fields[i] = vars.expand(f)
	}
	return process.Command{
		Name: fields[0],
		Args: fields[1:],
		Dir:  vars.dir,
		Env:  env,
	}, nil
}

// childEnv flattens the shared and per-language environment into KEY=VALUE
// pairs. Keys are sorted so every run of the same language sees the same order.
func childEnv(shared, lang map[string]string) []string {
	merged := make(map[string]string, len(shared)+len(lang))
	for k, v := range shared {
		merged[k] = v
	}
	for k, v := range lang {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env
}
