package isurus

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagazing/isurus/pkg/errors"
)

func TestRenderHelloWorld(t *testing.T) {
	asm := New("Hello {{$name}}", WithLookupDir(t.TempDir()))
	asm.AddPre(`{{$name := "world"}}`)

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out)
}

func TestRenderPlainTextPassesThrough(t *testing.T) {
	asm := New("no directives here\njust text\n", WithLookupDir(t.TempDir()))

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "no directives here\njust text\n", out)
}

func TestRenderImportedFunctions(t *testing.T) {
	asm := New(`{{upper "ok"}}`, WithLookupDir(t.TempDir()))
	require.NoError(t, asm.AddImport("strings"))

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "OK", out)
}

func TestRenderWithoutImportFails(t *testing.T) {
	asm := New(`{{upper "ok"}}`, WithLookupDir(t.TempDir()))

	_, err := asm.Render()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRenderFailed))
}

func TestRenderPostambleRunsAfterBody(t *testing.T) {
	asm := New("body", WithLookupDir(t.TempDir()))
	asm.AddPost(`{{$done := true}}`)

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "body", out)
}

func TestRenderMarkdownModeOutput(t *testing.T) {
	asm := New("## Title\ntext", WithMarkdown(true), WithLookupDir(t.TempDir()))

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "## Title\ntext", out)
}

func TestRenderSubTemplate(t *testing.T) {
	lookupDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(lookupDir, "sub.mako"), []byte("from sub"), 0644))

	asm := New(`main + {{template "sub.mako"}}`, WithLookupDir(lookupDir))

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "main + from sub", out)
}

func TestRenderSubTemplateSharesFunctions(t *testing.T) {
	lookupDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(lookupDir, "sub.mako"), []byte(`{{lower "LOUD"}}`), 0644))

	asm := New(`{{template "sub.mako"}}`, WithLookupDir(lookupDir))
	require.NoError(t, asm.AddImport("strings"))

	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "loud", out)
}

func TestRenderSaveIntermediate(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmpDir := t.TempDir()
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	asm := New("Hello", WithSave(true), WithLookupDir(tmpDir))
	out, err := asm.Render()
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)

	saved, err := filepath.Glob(filepath.Join(tmpDir, "isurus_*.mako"))
	require.NoError(t, err)
	require.Len(t, saved, 1)

	namePattern := regexp.MustCompile(`^isurus_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.mako$`)
	assert.Regexp(t, namePattern, filepath.Base(saved[0]))

	content, err := os.ReadFile(saved[0])
	require.NoError(t, err)
	assert.Equal(t, asm.Assemble(), string(content))
}

func TestRenderFile(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "out.txt")

	asm := New("Hello {{$name}}", WithLookupDir(tmpDir))
	asm.AddPre(`{{$name := "world"}}`)
	require.NoError(t, asm.RenderFile(output))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(content))
}

func TestRenderFileFailureWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "out.txt")

	asm := New(`{{undefinedFunction}}`, WithLookupDir(tmpDir))
	err := asm.RenderFile(output)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRenderFailed))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written on render failure")
}

func TestRenderFileWriteFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	asm := New("content", WithLookupDir(t.TempDir()), WithLogger(logger))
	output := filepath.Join(t.TempDir(), "missing", "out.txt")

	err := asm.RenderFile(output)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
	assert.Contains(t, buf.String(), "Failed to write output file",
		"a failed write should leave an error-level line, not exit silently")
}

func TestRenderFailureLogsTraceback(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	asm := New(`line one
{{fail "boom"}}`, WithLookupDir(t.TempDir()), WithLogger(logger))
	require.NoError(t, asm.AddImport("flow"))

	_, err := asm.Render()
	require.Error(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "template engine failed to render")
	assert.Contains(t, logs, "boom")
	assert.Contains(t, logs, "Template frame")
}

func TestTraceback(t *testing.T) {
	t.Run("parse_error_single_frame", func(t *testing.T) {
		err := stderrors.New(`template: isurus:3: function "nope" not defined`)
		frames := traceback(err)
		require.Len(t, frames, 1)
		assert.Equal(t, "isurus", frames[0].name)
		assert.Equal(t, 3, frames[0].line)
		assert.Equal(t, 0, frames[0].column)
	})

	t.Run("chained_exec_error_two_frames", func(t *testing.T) {
		err := stderrors.New(`template: isurus:2:10: executing "isurus" at <template "sub.mako">: ` +
			`error calling template: template: sub.mako:1:3: executing "sub.mako" at <fail "boom">: ` +
			`error calling fail: boom`)
		frames := traceback(err)
		require.Len(t, frames, 2)
		assert.Equal(t, "isurus", frames[0].name)
		assert.Equal(t, 2, frames[0].line)
		assert.Equal(t, 10, frames[0].column)
		assert.Equal(t, "sub.mako", frames[1].name)
		assert.Equal(t, 1, frames[1].line)
		assert.Equal(t, 3, frames[1].column)
	})

	t.Run("unrelated_error_no_frames", func(t *testing.T) {
		assert.Empty(t, traceback(stderrors.New("disk on fire")))
	})
}

func TestFrameSource(t *testing.T) {
	lookupDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(lookupDir, "sub.mako"), []byte("sub line one\nsub line two"), 0644))

	asm := New("body", WithLookupDir(lookupDir))
	text := "assembled line one\nassembled line two"

	t.Run("root_frame_reads_assembled_text", func(t *testing.T) {
		source := asm.frameSource(frame{name: rootName, line: 2}, text)
		assert.Equal(t, "assembled line two", source)
	})

	t.Run("sub_template_frame_reads_lookup_file", func(t *testing.T) {
		source := asm.frameSource(frame{name: "sub.mako", line: 1}, text)
		assert.Equal(t, "sub line one", source)
	})

	t.Run("out_of_range_line", func(t *testing.T) {
		assert.Empty(t, asm.frameSource(frame{name: rootName, line: 99}, text))
	})

	t.Run("unknown_sub_template", func(t *testing.T) {
		assert.Empty(t, asm.frameSource(frame{name: "ghost.mako", line: 1}, text))
	})
}
