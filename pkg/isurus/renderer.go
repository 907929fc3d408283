package isurus

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/natefinch/atomic"

	"github.com/datagazing/isurus/pkg/errors"
)

// rootName is the template name the engine reports in error locations
// for the assembled template itself.
const rootName = "isurus"

// frameRe matches the engine's "template: name:line[:col]:" error
// segments. A chained error yields one match per template-level frame.
var frameRe = regexp.MustCompile(`template: ([^:]+):(\d+)(?::(\d+))?: `)

// Render assembles the template and renders it. Sibling *.mako files in
// the lookup directory are parsed first so the template can reference
// them by name. Any engine failure is logged together with a traceback
// of template-level frames and returned as ErrRenderFailed; no output is
// produced in that case.
func (a *Assembler) Render() (string, error) {
	text := a.Assemble()

	if a.save {
		savefile := "isurus_" + Datestamp() + ".mako"
		if err := atomic.WriteFile(savefile, strings.NewReader(text)); err != nil {
			a.logger.Error().Err(err).Str("path", savefile).Msg("Failed to save intermediate template")
			return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to save intermediate template %s", savefile)
		}
		a.logger.Info().Str("path", savefile).Msg("Saved intermediate template")
	}

	root := template.New(rootName).Funcs(a.registry.Resolve(a.modules()))

	pattern := filepath.Join(a.lookupDir, "*.mako")
	parsed, err := root.ParseGlob(pattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			a.logRenderFailure(err, text)
			return "", errors.Wrap(err, errors.ErrRenderFailed, "template engine failed to render")
		}
		// No sub-templates around, which is the common case.
		parsed = root
	}

	tmpl, err := parsed.Parse(text)
	if err != nil {
		a.logRenderFailure(err, text)
		return "", errors.Wrap(err, errors.ErrRenderFailed, "template engine failed to render")
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, nil); err != nil {
		a.logRenderFailure(err, text)
		return "", errors.Wrap(err, errors.ErrRenderFailed, "template engine failed to render")
	}
	return out.String(), nil
}

// RenderFile renders the template and writes the output to path. The
// write is atomic, so a failed render or interrupted write leaves no
// partial file behind.
func (a *Assembler) RenderFile(path string) error {
	out, err := a.Render()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, strings.NewReader(out)); err != nil {
		a.logger.Error().Err(err).Str("path", path).Msg("Failed to write output file")
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write output file %s", path)
	}
	a.logger.Info().Str("path", path).Msg("Wrote rendered output")
	return nil
}

// frame is one template-level location extracted from an engine error.
type frame struct {
	name   string
	line   int
	column int
}

// logRenderFailure reports the engine error and a traceback of the
// template-level frames it names, with the offending source line where
// it can be recovered.
func (a *Assembler) logRenderFailure(err error, text string) {
	a.logger.Error().Msg("template engine failed to render")
	a.logger.Error().Msg(err.Error())
	for _, fr := range traceback(err) {
		event := a.logger.Debug().Str("template", fr.name).Int("line", fr.line)
		if fr.column > 0 {
			event = event.Int("column", fr.column)
		}
		if source := a.frameSource(fr, text); source != "" {
			event = event.Str("source", source)
		}
		event.Msg("Template frame")
	}
}

// traceback extracts the template-level frames from an engine error,
// outermost first.
func traceback(err error) []frame {
	var frames []frame
	for _, m := range frameRe.FindAllStringSubmatch(err.Error(), -1) {
		line, _ := strconv.Atoi(m[2])
		column := 0
		if m[3] != "" {
			column, _ = strconv.Atoi(m[3])
		}
		frames = append(frames, frame{name: m[1], line: line, column: column})
	}
	return frames
}

// frameSource recovers the source line a frame points at, from the
// assembled text for the root template or from the sub-template file in
// the lookup directory.
func (a *Assembler) frameSource(fr frame, text string) string {
	if fr.name != rootName {
		data, err := os.ReadFile(filepath.Join(a.lookupDir, fr.name))
		if err != nil {
			return ""
		}
		text = string(data)
	}
	lines := strings.Split(text, "\n")
	if fr.line < 1 || fr.line > len(lines) {
		return ""
	}
	return lines[fr.line-1]
}
