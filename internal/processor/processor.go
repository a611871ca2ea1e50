// Package processor orchestrates a full processor invocation: precondition
// checks, version negotiation, argument parsing, and input-file enumeration.
// The calling binary iterates the enumerated files and performs its own
// per-file logic.
package processor

import (
	goerrors "errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"ocrdkit/internal/cli"
	"ocrdkit/internal/errors"
	"ocrdkit/internal/logging"
	"ocrdkit/internal/ocrd"
	"ocrdkit/internal/version"
)

// InputFile is one entry of the enumerated input-file list. Entries are
// produced once per invocation and are immutable afterwards; their order is
// the external tool's enumeration order.
type InputFile struct {
	LocalFilename string
	ID            string
	MIMEType      string
	PageID        string
	OutputFileID  string
}

// Invocation is the state of one processor run: the validated options, the
// resolved parameters in both representations, and the input-file list.
type Invocation struct {
	Env        *cli.Env
	Options    *cli.Options
	Params     map[string]string
	ParamsJSON string
	Files      []InputFile
}

// Run wraps a processor invocation. It validates the environment
// preconditions, negotiates the minimum ocrd version, parses argv, and on
// an ordinary (continue) outcome enumerates the input files.
//
// The returned Outcome tells the caller what to do next: exit, hand off to
// a networked runtime, or iterate inv.Files. inv is non-nil only for the
// continue outcome.
func Run(descriptor, toolName string, argv []string, env *cli.Env) (*Invocation, *cli.Outcome, error) {
	if env.FS == nil {
		env.FS = afero.NewOsFs()
	}
	if env.Delegate == nil {
		env.Delegate = ocrd.NewClient(ocrd.Launcher)
	}

	if !env.Delegate.Available() {
		return nil, nil, errors.NewPreconditionError("ocrd executable not found on PATH")
	}
	if descriptor == "" {
		return nil, nil, errors.NewPreconditionError("path to ocrd-tool.json not set")
	}
	if ok, _ := afero.Exists(env.FS, descriptor); !ok {
		return nil, nil, errors.NewPreconditionError("ocrd-tool.json not readable at %s", descriptor)
	}
	if toolName == "" {
		return nil, nil, errors.NewPreconditionError("tool name not set")
	}
	tools, err := env.Delegate.ListTools(descriptor)
	if err != nil {
		return nil, nil, err
	}
	if !contains(tools, toolName) {
		return nil, nil, errors.NewPreconditionError("tool %s not in %s", toolName, descriptor)
	}

	current, err := env.Delegate.Version()
	if err != nil {
		return nil, nil, err
	}
	if err := version.Require(current, version.Required); err != nil {
		return nil, nil, err
	}

	env.Descriptor = descriptor
	env.ToolName = toolName

	outcome, err := cli.Parse(argv, env)
	if err != nil {
		return nil, nil, err
	}
	if outcome.Kind != cli.OutcomeContinue {
		return nil, outcome, nil
	}

	opts := outcome.Options
	if err := logging.Setup(opts.LogLevel, opts.LogFilename); err != nil {
		return nil, nil, err
	}
	log.Debug().Str("tool", toolName).Str("mets", opts.METS).Msg("wrapped processor invocation")

	leave := env.Tracer.Enter("input-files")
	records, err := env.Delegate.InputFiles(ocrd.InputFilesRequest{
		Descriptor:    descriptor,
		Tool:          toolName,
		Debug:         opts.Debug,
		Overwrite:     opts.Overwrite,
		METS:          opts.METS,
		WorkingDir:    opts.WorkingDir,
		METSServerURL: opts.METSServerURL,
		ParameterJSON: outcome.ParamsJSON,
		InputFileGrp:  opts.InputFileGrp,
		OutputFileGrp: opts.OutputFileGrp,
		PageID:        opts.PageID,
	})
	leave()
	if err != nil {
		return nil, nil, err
	}

	files := make([]InputFile, 0, len(records))
	for _, record := range records {
		fields, err := ocrd.KeyValueRecord(record)
		if err != nil {
			return nil, nil, errors.NewPreconditionError("malformed input-file record %q: %v", record, err)
		}
		files = append(files, InputFile{
			LocalFilename: fields["local_filename"],
			ID:            fields["ID"],
			MIMEType:      fields["mimetype"],
			PageID:        fields["pageId"],
			OutputFileID:  fields["outputFileId"],
		})
	}
	env.Tracer.Step("enumerated %d input files", len(files))

	return &Invocation{
		Env:        env,
		Options:    opts,
		Params:     outcome.Params,
		ParamsJSON: outcome.ParamsJSON,
		Files:      files,
	}, outcome, nil
}

// Field returns a named field of the input file at the given index. An
// out-of-range index or unknown field name yields an empty string.
func (inv *Invocation) Field(i int, name string) string {
	if inv == nil || i < 0 || i >= len(inv.Files) {
		return ""
	}
	f := inv.Files[i]
	switch name {
	case "local_filename":
		return f.LocalFilename
	case "ID":
		return f.ID
	case "mimetype":
		return f.MIMEType
	case "pageId":
		return f.PageID
	case "outputFileId":
		return f.OutputFileID
	}
	return ""
}

// ExitCode maps an error from Run to the process exit status: delegate
// failures pass their own code through, everything else raised by this
// library exits with 127. Exit status 1 is reserved for the empty-argv
// usage print, which is an Outcome, not an error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var de *errors.DelegateError
	if goerrors.As(err, &de) && de.ExitCode > 0 {
		return de.ExitCode
	}
	return errors.ExitFatal
}

func contains(list []string, item string) bool {
	for _, e := range list {
		if e == item {
			return true
		}
	}
	return false
}
