package explore

import (
	"regexp"
)

// BodyFlags are the defensive-coding signals detected in a method body.
type BodyFlags struct {
	HasExceptionHandling bool `json:"has_exception_handling"`
	HasNullCheck         bool `json:"has_null_check"`
}

// These are deliberate textual heuristics over decoded source, not
// structural analysis: a match inside a comment or string literal is an
// accepted false positive.
var (
	tryPattern    = regexp.MustCompile(`try\s*\{`)
	catchPattern  = regexp.MustCompile(`catch\s*\(`)
	throwsPattern = regexp.MustCompile(`throws\s+[\w.,\s]+`)

	nullCheckPatterns = []*regexp.Regexp{
		regexp.MustCompile(`if\s*\(\s*\w+\s*==\s*null\s*\)`),
		regexp.MustCompile(`if\s*\(\s*null\s*==\s*\w+\s*\)`),
		regexp.MustCompile(`if\s*\(\s*\w+\s*!=\s*null\s*\)`),
		regexp.MustCompile(`if\s*\(\s*null\s*!=\s*\w+\s*\)`),
		regexp.MustCompile(`Objects\.requireNonNull`),
		regexp.MustCompile(`Optional\.`),
	}
)

// HasExceptionHandling reports whether code contains a try block with a
// catch clause, or a throws declaration.
func HasExceptionHandling(code string) bool {
	if tryPattern.MatchString(code) && catchPattern.MatchString(code) {
		return true
	}
	return throwsPattern.MatchString(code)
}

// HasNullCheck reports whether code contains a null-comparison idiom, a
// null-require call, or a reference to the Optional API.
func HasNullCheck(code string) bool {
	for _, p := range nullCheckPatterns {
		if p.MatchString(code) {
			return true
		}
	}
	return false
}

// ClassifyBody computes both flags for a method body.
func ClassifyBody(code string) BodyFlags {
	return BodyFlags{
		HasExceptionHandling: HasExceptionHandling(code),
		HasNullCheck:         HasNullCheck(code),
	}
}

// ExtractMethodBody locates methodName's declaration in file content and
// returns its code by counting brace depth from the opening brace. This
// is a text scan: it finds the first declaration with that name and does
// not disambiguate overloads.
func ExtractMethodBody(content, methodName string) (string, bool) {
	pattern, err := regexp.Compile(`(public|private|protected)?\s+[\w<>\[\]]+\s+` +
		regexp.QuoteMeta(methodName) + `\s*\([^)]*\)[^{;]*\{`)
	if err != nil {
		return "", false
	}

	loc := pattern.FindStringIndex(content)
	if loc == nil {
		return "", false
	}

	start := loc[0]
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}

	return "", false
}
