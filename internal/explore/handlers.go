package explore

import (
	"log"
	"regexp"
	"strings"

	"stacklens/internal/index"
	"stacklens/internal/javasrc"
	"stacklens/internal/repo"
)

// FindHandlers returns the methods of className whose body appears to
// catch exceptionSimpleName. A class absent from the class map yields an
// empty list, never an error. Detection is heuristic: a cheap regex
// pre-check on the raw text avoids re-parsing files that cannot match,
// and a body-text substring test stands in for real catch-clause
// analysis, false positives included.
func FindHandlers(idx *index.Index, className, exceptionSimpleName string) []index.Method {
	handlers := []index.Method{}

	path, ok := idx.ClassFile(className)
	if !ok {
		return handlers
	}

	content, err := repo.ReadFile(path)
	if err != nil {
		log.Printf("failed to read %s while locating handlers: %v", path, err)
		return handlers
	}

	catchClause := regexp.MustCompile(`catch\s*\(\s*` + regexp.QuoteMeta(exceptionSimpleName) + `\s+\w+\s*\)`)
	if !catchClause.MatchString(content) {
		return handlers
	}

	file, err := javasrc.Parse([]byte(content))
	if err != nil {
		log.Printf("failed to parse %s while locating handlers: %v", path, err)
		return handlers
	}

	simpleName := className
	if i := strings.LastIndex(className, "."); i >= 0 {
		simpleName = className[i+1:]
	}

	for _, cls := range file.Classes {
		if cls.Name != simpleName {
			continue
		}
		for _, m := range cls.Methods {
			if strings.Contains(m.Body, exceptionSimpleName) && strings.Contains(m.Body, "catch") {
				handlers = append(handlers, index.Method{
					ClassName:  className,
					MethodName: m.Name,
					FilePath:   path,
				})
			}
		}
	}

	return handlers
}
