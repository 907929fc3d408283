package isurus

import (
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Registry holds the importable modules: named groups of template
// functions. Importing a module is what makes its functions available to
// the engine, so an import that cannot be resolved here really would
// break the render later.
type Registry struct {
	modules map[string]template.FuncMap
}

// defaultModules partitions the sprig function catalog into importable
// modules. Function names missing from the installed catalog are
// skipped, so the lists may safely run ahead of older catalog versions.
var defaultModules = map[string][]string{
	"strings": {
		"abbrev", "abbrevboth", "trunc", "trim", "upper", "lower", "title",
		"untitle", "substr", "repeat", "trimAll", "trimSuffix", "trimPrefix",
		"nospace", "initials", "swapcase", "shuffle", "snakecase", "camelcase",
		"kebabcase", "wrap", "wrapWith", "contains", "hasPrefix", "hasSuffix",
		"quote", "squote", "cat", "indent", "nindent", "replace", "plural",
		"split", "splitList", "splitn", "join", "sortAlpha",
	},
	"math": {
		"add", "add1", "sub", "div", "mod", "mul", "max", "min",
		"floor", "ceil", "round", "until", "untilStep", "seq",
	},
	"lists": {
		"list", "first", "rest", "last", "initial", "append", "prepend",
		"concat", "reverse", "uniq", "without", "has", "compact", "slice",
		"chunk",
	},
	"dicts": {
		"dict", "get", "set", "unset", "hasKey", "pluck", "keys", "pick",
		"omit", "merge", "mergeOverwrite", "values", "deepCopy", "dig",
	},
	"encoding": {
		"b64enc", "b64dec", "b32enc", "b32dec",
		"toJson", "fromJson", "toPrettyJson", "toRawJson",
	},
	"os": {
		"env", "expandenv",
	},
	"path": {
		"base", "dir", "ext", "clean", "isAbs",
		"osBase", "osDir", "osExt", "osClean", "osIsAbs",
	},
	"date": {
		"now", "ago", "date", "dateInZone", "dateModify", "duration",
		"durationRound", "htmlDate", "htmlDateInZone", "toDate", "unixEpoch",
	},
	"random": {
		"randAlpha", "randAlphaNum", "randNumeric", "randAscii", "randInt",
	},
	"regexp": {
		"regexMatch", "regexFindAll", "regexFind", "regexReplaceAll",
		"regexReplaceAllLiteral", "regexSplit", "regexQuoteMeta",
	},
	"flow": {
		"default", "empty", "coalesce", "all", "any", "ternary", "fail",
	},
	"conversion": {
		"atoi", "int", "int64", "float64", "toDecimal", "toString", "toStrings",
	},
	"crypto": {
		"sha1sum", "sha256sum", "adler32sum", "bcrypt", "htpasswd",
		"encryptAES", "decryptAES",
	},
	"uuid": {
		"uuidv4",
	},
	"semver": {
		"semver", "semverCompare",
	},
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]template.FuncMap)}
}

// DefaultRegistry returns a registry populated with the standard module
// partition of the sprig catalog.
func DefaultRegistry() *Registry {
	catalog := sprig.TxtFuncMap()
	r := NewRegistry()
	for name, functions := range defaultModules {
		group := make(template.FuncMap, len(functions))
		for _, fn := range functions {
			if impl, ok := catalog[fn]; ok {
				group[fn] = impl
			}
		}
		r.Register(name, group)
	}
	return r
}

// Register adds or replaces a module.
func (r *Registry) Register(name string, funcs template.FuncMap) {
	r.modules[name] = funcs
}

// Has reports whether a module can be imported.
func (r *Registry) Has(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Names returns the importable module names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the function groups of the named modules into a single
// map for the engine. Unknown names contribute nothing.
func (r *Registry) Resolve(names []string) template.FuncMap {
	merged := make(template.FuncMap)
	for _, name := range names {
		for fn, impl := range r.modules[name] {
			merged[fn] = impl
		}
	}
	return merged
}
