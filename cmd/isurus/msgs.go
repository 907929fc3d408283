package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Humane template preprocessor interface/filter"
	MsgVersionShort    = "Print version information"
	MsgModulesShort    = "List importable modules"
	MsgModulesLong     = "List the module names an import declaration may refer to, one per line."
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagInput    = "Input file"
	MsgFlagOutput   = "Output file"
	MsgFlagReplace  = "Replace output file if it already exists"
	MsgFlagMarkdown = "Assume markdown input (no \"##\" comments)"
	MsgFlagSave     = "Save the assembled intermediate template in the current directory"
	MsgFlagImport   = "Add an import declaration to the template preamble (repeatable)"
	MsgFlagPre      = "Add a code fragment to the template preamble (repeatable)"
	MsgFlagPost     = "Add a code fragment to the template postamble (repeatable)"

	// Error messages
	MsgErrNoInput      = "no input"
	MsgErrOutputExists = "output file exists"
	MsgErrReplaceHint  = "replace option (-R/--replace) not specified"
)

// MsgRootLong is the root command's long help.
const MsgRootLong = `isurus renders a template file through the text/template engine extended
with the sprig function catalog.

The template is wrapped in a preamble holding import declarations and any
code fragments given with --pre, plus an optional postamble from --post.
Imports name function modules (see "isurus modules"); a template can only
call functions whose module it imports.

The input is a file path, given with --input or as the last positional
argument. Without --output the output path is derived from the input: a
.mako suffix is stripped, anything else produces a timestamped
isurus_out_<timestamp>.txt file. An existing output file is never
overwritten unless --replace is set.`
