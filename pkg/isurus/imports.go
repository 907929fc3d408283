package isurus

import (
	"regexp"
	"strings"

	"github.com/datagazing/isurus/pkg/errors"
)

// The import declaration grammar: three fixed shapes, first match wins.
// "import x as y" is caught by importRe, "from x import y as z" by
// fromImportRe.
var (
	bareModuleRe = regexp.MustCompile(`^\w+$`)
	importRe     = regexp.MustCompile(`^import\s+(\w+)`)
	fromImportRe = regexp.MustCompile(`^from\s+(\w+)\s+import\s+(\w+)`)
)

// parseImport normalizes a free-form import declaration and extracts the
// module name it refers to. A bare identifier is rewritten to a full
// "import <name>" statement; other forms are kept as written (trimmed).
// The member of a from-import is matched but not otherwise validated.
func parseImport(declaration string) (canonical, module string, err error) {
	trimmed := strings.TrimSpace(declaration)
	if m := bareModuleRe.FindString(trimmed); m != "" {
		return "import " + m, m, nil
	}
	if m := importRe.FindStringSubmatch(trimmed); m != nil {
		return trimmed, m[1], nil
	}
	if m := fromImportRe.FindStringSubmatch(trimmed); m != nil {
		return trimmed, m[1], nil
	}
	return "", "", errors.Newf(errors.ErrImportUnparseable, "unable to parse import declaration: %s", declaration)
}
