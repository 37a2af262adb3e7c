package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/executor"
)

// parseLanguage resolves a request's language tag against the built-in
// aliases and then the configured languages. An empty tag means Python.
func parseLanguage(tag string, configured []executor.Language) (executor.Language, error) {
	if strings.TrimSpace(tag) == "" {
		return executor.Python, nil
	}
	if lang, ok := executor.ParseLanguage(tag); ok {
		return lang, nil
	}
	if lang := executor.Language(strings.ToLower(strings.TrimSpace(tag))); slices.Contains(configured, lang) {
		return lang, nil
	}

	known := configured
	if len(known) == 0 {
		known = executor.SupportedLanguages()
	}
	names := make([]string, len(known))
	for i, l := range known {
		names[i] = string(l)
	}
	return "", apperror.ValidationFailed("language",
		fmt.Sprintf("unknown language %q; supported: %s", tag, strings.Join(names, ", ")))
}
