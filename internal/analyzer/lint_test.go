package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLintLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LintIssue
		ok   bool
	}{
		{
			name: "code and message",
			line: "/tmp/a/main.py:3:1: E302 expected 2 blank lines, found 1",
			want: LintIssue{Line: 3, Column: 1, Code: "E302", Message: "expected 2 blank lines, found 1"},
			ok:   true,
		},
		{
			name: "message keeps later colons",
			line: "main.py:1:10: E231 missing whitespace after ':'",
			want: LintIssue{Line: 1, Column: 10, Code: "E231", Message: "missing whitespace after ':'"},
			ok:   true,
		},
		{
			name: "code only",
			line: "main.py:7:80: E501",
			want: LintIssue{Line: 7, Column: 80, Code: "E501", Message: "E501"},
			ok:   true,
		},
		{name: "non-numeric line", line: "main.py:x:1: E1 oops"},
		{name: "too few fields", line: "main.py:1: something"},
		{name: "blank", line: "   "},
		{name: "banner", line: "flake8: warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLintLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseLintText(t *testing.T) {
	issues, ok := parseLintText("noise\nmain.py:1:1: F401 'os' imported but unused\n\nmore noise\n")
	assert.True(t, ok)
	assert.Len(t, issues, 1)

	issues, ok = parseLintText("")
	assert.True(t, ok)
	assert.Empty(t, issues)

	_, ok = parseLintText("json\njson\n")
	assert.False(t, ok)
}

func TestParseLintJSONObject(t *testing.T) {
	out := `{
		"b.py": [{"code": "E1", "line_number": 2, "column_number": 3, "text": "second file"}],
		"a.py": [
			{"code": "F401", "line_number": 1, "column_number": 1, "text": "unused"},
			{"code": "E302", "line_number": 4, "column_number": 1, "text": "blank lines"}
		]
	}`

	issues, ok := parseLintJSONObject(out)

	assert.True(t, ok)
	assert.Equal(t, []string{"F401", "E302", "E1"}, []string{issues[0].Code, issues[1].Code, issues[2].Code})

	_, ok = parseLintJSONObject(`[1, 2]`)
	assert.False(t, ok)
}

func TestParseCC(t *testing.T) {
	stats, ok := parseCC(`{"/tmp/x/main.py": [{"type": "function", "complexity": 2}, {"complexity": 4}]}`, "/tmp/x/main.py")
	assert.True(t, ok)
	assert.Equal(t, ccStats{average: 3, max: 4, count: 2}, stats)

	// A lone entry under a differently spelled path is still accepted.
	_, ok = parseCC(`{"main.py": []}`, "/tmp/x/main.py")
	assert.True(t, ok)

	_, ok = parseCC(`{"a.py": [], "b.py": []}`, "/tmp/x/main.py")
	assert.False(t, ok)
}

func TestParseMI(t *testing.T) {
	mi, ok := parseMI(`{"main.py": {"mi": 71.5, "rank": "A"}}`, "main.py")
	assert.True(t, ok)
	assert.Equal(t, 71.5, mi)

	_, ok = parseMI(`{"main.py": {"rank": "A"}}`, "main.py")
	assert.False(t, ok)

	_, ok = parseMI(``, "main.py")
	assert.False(t, ok)
}
