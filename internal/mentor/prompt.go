package mentor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sakif/coding-mentor/internal/analyzer"
)

// promptStyle is the fixed part of each kind's prompt.
type promptStyle struct {
	system      string
	task        string
	emptyCode   string
	maxTokens   int64
	temperature float64
}

var promptStyles = map[Kind]promptStyle{
	Hint: {
		system: "You are a helpful coding mentor who provides conceptual guidance without giving away solutions. " +
			"You focus on teaching problem-solving strategies rather than providing direct answers.",
		task: `Provide a helpful conceptual hint that guides the student toward the solution WITHOUT giving away the code.
Structure it as follows:
1. A clear statement of the core concept needed
2. Why this approach suits this problem
3. One or two edge cases to consider
4. If there are errors, the conceptual issue behind them
5. An encouraging note
Do NOT provide actual code.`,
		emptyCode:   "No code written yet",
		maxTokens:   400,
		temperature: 0.5,
	},
	NextSteps: {
		system: "You are a helpful coding mentor who provides step-by-step coding guidance with syntactically correct, executable code.",
		task: `Provide guidance for the NEXT 1-3 lines of code only.
- The code must be syntactically correct and executable
- If the current code has syntax errors, fix them first
- If starting fresh, provide a proper function signature

Format your response as:
**Next Step:**
` + "```" + `<language>
<1-3 lines of code>
` + "```" + `

**Why this step:**
<brief explanation>

**Learning tip:**
<educational insight>`,
		emptyCode:   "Starting fresh",
		maxTokens:   500,
		temperature: 0.3,
	},
	FullSolution: {
		system: "You are a helpful coding mentor who provides complete, executable solutions with educational explanations. " +
			"Always ensure code is syntactically correct and includes test cases that verify all scenarios.",
		task: `The student wants to see a complete solution for learning purposes.
Provide:
**Complete Solution:** working code with comments
**Test Cases:** tests covering normal and edge cases
**Explanation:** the approach step by step
**Key Concepts:** the ideas the solution demonstrates
**Complexity:** time and space with explanation
**Edge Cases Handled:** a list`,
		emptyCode:   "No code written yet",
		maxTokens:   2000,
		temperature: 0.2,
	},
}

// buildPrompt assembles the chat prompt for req.
func buildPrompt(req Request, lint []analyzer.LintIssue) Prompt {
	style := promptStyles[req.Kind]
	lang := string(req.Language)

	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", strings.TrimSpace(req.Problem))
	if req.Kind == FullSolution {
		fmt.Fprintf(&b, "Problem classification: %s\n", ClassifyProblem(req.Problem))
	}
	fmt.Fprintf(&b, "Language: %s\n", lang)

	code := req.Code
	if strings.TrimSpace(code) == "" {
		code = style.emptyCode
	}
	fmt.Fprintf(&b, "Current code:\n```%s\n%s\n```\n", lang, strings.TrimRight(code, "\n"))

	if req.Stdout != "" || req.Stderr != "" {
		fmt.Fprintf(&b, "\nRecent execution results:\nOutput: %s\nErrors: %s\n",
			orDefault(req.Stdout, "No output"), orDefault(req.Stderr, "No errors"))
	}

	if len(lint) > 0 {
		b.WriteString("\nPotential issues in the code:\n")
		for _, issue := range lint {
			fmt.Fprintf(&b, "- Line %d: %s\n", issue.Line, issue.Message)
		}
	}

	if req.Kind != Hint {
		if examples := ExtractExamples(req.Problem); len(examples) > 0 {
			b.WriteString("\nExamples from the problem statement:\n")
			for i, ex := range examples {
				fmt.Fprintf(&b, "Example %d:\n%s\n", i+1, ex)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.ReplaceAll(style.task, "<language>", lang))

	return Prompt{
		System:      style.system,
		User:        b.String(),
		MaxTokens:   style.maxTokens,
		Temperature: style.temperature,
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Example is a worked example found in a problem statement.
type Example struct {
	Input  string
	Output string
	// Text is the raw example body when it has no Input/Output labels.
	Text string
}

func (e Example) String() string {
	if e.Input != "" || e.Output != "" {
		return fmt.Sprintf("Input: %s\nExpected Output: %s", e.Input, e.Output)
	}
	return e.Text
}

// examplePattern recognises one way problem statements label examples.
// Each header starts a section that runs to the next header or the end.
type examplePattern struct {
	header *regexp.Regexp
	// labelled requires an Output label inside the section.
	labelled bool
}

var (
	inputLabel  = regexp.MustCompile(`(?i)\binput\s*:`)
	outputLabel = regexp.MustCompile(`(?i)\b(?:output|result)\s*:`)

	// examplePatterns are tried in order and the first that finds anything
	// wins.
	examplePatterns = []examplePattern{
		{header: regexp.MustCompile(`(?i)\bexample\s*\d*\s*:`)},
		{header: inputLabel, labelled: true},
		{header: regexp.MustCompile(`(?i)\btest\s+case\s*\d*\s*:`)},
	}
)

// ExtractExamples returns the worked examples in a problem statement, or nil
// when it has none.
func ExtractExamples(statement string) []Example {
	for _, p := range examplePatterns {
		if examples := p.find(statement); len(examples) > 0 {
			return examples
		}
	}
	return nil
}

func (p examplePattern) find(s string) []Example {
	locs := p.header.FindAllStringIndex(s, -1)
	var out []Example
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := s[loc[1]:end]
		if p.labelled {
			if ex, ok := splitOutput(body); ok {
				out = append(out, ex)
			}
			continue
		}
		if ex, ok := parseSection(body); ok {
			out = append(out, ex)
		}
	}
	return out
}

// parseSection reads an example body, picking out Input/Output labels when
// present.
func parseSection(body string) (Example, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Example{}, false
	}
	if loc := inputLabel.FindStringIndex(body); loc != nil {
		if ex, ok := splitOutput(body[loc[1]:]); ok {
			return ex, true
		}
	}
	return Example{Text: body}, true
}

// splitOutput splits "<input> Output: <output>".
func splitOutput(body string) (Example, bool) {
	loc := outputLabel.FindStringIndex(body)
	if loc == nil {
		return Example{}, false
	}
	return Example{
		Input:  strings.TrimSpace(body[:loc[0]]),
		Output: strings.TrimSpace(body[loc[1]:]),
	}, true
}

// problemRule maps statement keywords to a problem category.
type problemRule struct {
	category string
	terms    *regexp.Regexp
}

// problemRules are checked in order; the first match wins.
var problemRules = []problemRule{
	{"palindrome", regexp.MustCompile(`(?i)\b(?:palindrome|mirror|reads the same)`)},
	{"two sum", regexp.MustCompile(`(?i)\b(?:two sum|pair sum|find two numbers|sum to target)\b`)},
	{"fibonacci", regexp.MustCompile(`(?i)\b(?:fibonacci|sequence of numbers)\b`)},
	{"sorting", regexp.MustCompile(`(?i)\b(?:sort|arrange|order)`)},
	{"binary search", regexp.MustCompile(`(?i)\bbinary search\b`)},
	{"searching", regexp.MustCompile(`(?i)\b(?:search|find element|locate)`)},
	{"tree", regexp.MustCompile(`(?i)\b(?:tree|node)s?\b`)},
	{"graph", regexp.MustCompile(`(?i)\b(?:graph|vertex|vertices|edge|connection)s?\b`)},
	{"dynamic_programming", regexp.MustCompile(`(?i)\b(?:dynamic programming|dp|optimal substructure)\b`)},
	{"recursion", regexp.MustCompile(`(?i)\brecursi(?:on|ve)\b`)},
	{"string", regexp.MustCompile(`(?i)\b(?:string|substring|text)s?\b`)},
	{"array_manipulation", regexp.MustCompile(`(?i)\b(?:array|list|element)s?\b`)},
}

// ClassifyProblem names the category of a problem statement, or "general".
func ClassifyProblem(statement string) string {
	for _, r := range problemRules {
		if r.terms.MatchString(statement) {
			return r.category
		}
	}
	return "general"
}
