package local

import "regexp"

// classPatterns are the accepted shapes of a Java public class declaration,
// tried in order. The first pattern only matches a declaration that starts a
// line, so a commented-out "// public class Old" does not shadow the real one.
var classPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*public\s+(?:(?:final|abstract|strictfp)\s+)*class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
	regexp.MustCompile(`public\s+(?:(?:final|abstract|strictfp)\s+)*class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
}

// PublicClassName extracts the name of the public class declared in src.
// javac requires the file to be named after it. ok is false when no pattern
// matches.
func PublicClassName(src string) (name string, ok bool) {
	for _, re := range classPatterns {
		if m := re.FindStringSubmatch(src); m != nil {
			return m[1], true
		}
	}
	return "", false
}
