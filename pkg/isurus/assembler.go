package isurus

import (
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/datagazing/isurus/pkg/errors"
)

// Block markers delimiting the assembled preamble and postamble. The trim
// markers are placed so each block renders to nothing while the body's
// own leading and trailing whitespace survives untouched.
const (
	preambleOpen   = "{{/* preamble */ -}}"
	preambleClose  = "{{- /* end preamble */}}"
	postambleOpen  = "{{/* postamble */ -}}"
	postambleClose = "{{- /* end postamble */}}"
)

// markdownEscape renders a literal "##" so the engine never sees the
// characters a markdown header starts with.
const markdownEscape = `{{"##"}}`

// Assembler builds a single renderable template out of user template
// source, validated import declarations and arbitrary pre/post code
// fragments. Construct one per template with New; the zero value is not
// usable.
type Assembler struct {
	text      string
	markdown  bool
	save      bool
	lookupDir string
	logger    zerolog.Logger
	registry  *Registry
	imports   map[string]string // canonical declaration -> module name
	pre       []string
	post      []string
}

// Option configures an Assembler at construction time.
type Option func(*Assembler)

// WithMarkdown enables markdown mode: body lines starting with "##" are
// rewritten so the marker renders literally instead of reading like
// engine syntax.
func WithMarkdown(on bool) Option {
	return func(a *Assembler) { a.markdown = on }
}

// WithSave makes Render first write the assembled template to a
// timestamped file in the current directory.
func WithSave(on bool) Option {
	return func(a *Assembler) { a.save = on }
}

// WithLogger supplies the logger the assembler reports through. The
// default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Assembler) { a.logger = logger }
}

// WithRegistry replaces the default module registry.
func WithRegistry(registry *Registry) Option {
	return func(a *Assembler) { a.registry = registry }
}

// WithLookupDir sets the directory searched for sibling sub-templates
// during rendering. Defaults to the current working directory.
func WithLookupDir(dir string) Option {
	return func(a *Assembler) { a.lookupDir = dir }
}

// New creates an Assembler from template input. If input names an
// existing regular file the file's contents become the template source;
// otherwise input itself is the source. The distinction is not tracked
// afterwards.
func New(input string, opts ...Option) *Assembler {
	a := &Assembler{
		lookupDir: ".",
		logger:    zerolog.Nop(),
		registry:  DefaultRegistry(),
		imports:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.text = resolveInput(input, a.logger)
	return a
}

// resolveInput turns a file path into its contents. Anything that is not
// a readable regular file falls through to literal template text.
func resolveInput(input string, logger zerolog.Logger) string {
	info, err := os.Stat(input)
	if err != nil || !info.Mode().IsRegular() {
		return input
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return input
	}
	logger.Debug().Str("path", input).Msg("Read template input from file")
	return string(data)
}

// AddImport validates an import declaration and records its canonical
// form. Adding the same canonical declaration twice is a no-op.
//
// A declaration that cannot be parsed is logged and dropped; the
// returned error has code ErrImportUnparseable and the caller may
// continue. A declaration naming a module the registry does not know
// returns ErrModuleNotFound, which callers should treat as fatal: the
// template would fail unpredictably at render time.
func (a *Assembler) AddImport(declaration string) error {
	canonical, module, err := parseImport(declaration)
	if err != nil {
		a.logger.Error().Str("declaration", declaration).Msg("Unable to parse import declaration")
		return err
	}
	if !a.registry.Has(module) {
		a.logger.Error().Str("module", module).Msg("Unable to find module")
		return errors.Newf(errors.ErrModuleNotFound, "unable to find module %s", module)
	}
	a.imports[canonical] = module
	return nil
}

// AddPre appends a code fragment to the template preamble. Fragments are
// emitted verbatim, one per line; the surrounding markers trim whitespace
// before the first fragment and after the last, so a fragment that should
// not contribute a line break of its own carries its own trim markers.
func (a *Assembler) AddPre(fragment string) {
	a.pre = append(a.pre, fragment)
}

// AddPost appends a code fragment to the template postamble. Line-break
// ownership works as in AddPre.
func (a *Assembler) AddPost(fragment string) {
	a.post = append(a.post, fragment)
}

// Assemble produces the full template text: preamble, body and
// postamble, each newline-joined internally and concatenated with no
// separator in between. Assembly is pure; identical state yields
// identical output.
func (a *Assembler) Assemble() string {
	return strings.Join(a.preamble(), "\n") +
		strings.Join(a.bodyLines(), "\n") +
		strings.Join(a.postamble(), "\n")
}

// String returns the assembled template text.
func (a *Assembler) String() string {
	return a.Assemble()
}

// preamble returns the header block: opening marker, import declarations
// in lexicographic order, pre fragments in insertion order, closing
// marker. The block is always present, even when empty.
func (a *Assembler) preamble() []string {
	block := []string{preambleOpen}
	declarations := make([]string, 0, len(a.imports))
	for declaration := range a.imports {
		declarations = append(declarations, declaration)
	}
	sort.Strings(declarations)
	for _, declaration := range declarations {
		block = append(block, "{{- /* "+declaration+" */ -}}")
	}
	block = append(block, a.pre...)
	block = append(block, preambleClose)
	return block
}

// bodyLines splits the input into lines, drops a leading shebang line
// and, in markdown mode, neutralizes "##" line prefixes.
func (a *Assembler) bodyLines() []string {
	lines := strings.Split(a.text, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		a.logger.Debug().Str("line", lines[0]).Msg("Stripping shebang line")
		lines = lines[1:]
	}
	if !a.markdown {
		return lines
	}
	escaped := make([]string, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "##") {
			line = markdownEscape + line[2:]
		}
		escaped[i] = line
	}
	return escaped
}

// postamble returns the footer block, or nothing at all when no post
// fragments were added.
func (a *Assembler) postamble() []string {
	if len(a.post) == 0 {
		return nil
	}
	block := []string{postambleOpen}
	block = append(block, a.post...)
	block = append(block, postambleClose)
	return block
}

// modules returns the distinct module names the import set refers to,
// sorted for deterministic resolution.
func (a *Assembler) modules() []string {
	seen := make(map[string]struct{}, len(a.imports))
	names := make([]string, 0, len(a.imports))
	for _, module := range a.imports {
		if _, ok := seen[module]; ok {
			continue
		}
		seen[module] = struct{}{}
		names = append(names, module)
	}
	sort.Strings(names)
	return names
}
