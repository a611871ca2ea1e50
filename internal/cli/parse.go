package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"ocrdkit/internal/config"
	"ocrdkit/internal/errors"
	"ocrdkit/internal/logging"
	"ocrdkit/internal/ocrd"
	"ocrdkit/internal/trace"
)

// Parse consumes argv and produces an Outcome: a fully validated
// configuration for ordinary processing, a worker/server hand-off request,
// or an exit after an early-exit informational command.
//
// Validation order matters: mode dispatch is decided before ordinary-mode
// checks so worker/server invocations never require a METS file, and
// early-exit commands are handled inline during parsing so --help and
// --version work even with otherwise invalid arguments.
func Parse(argv []string, env *Env) (*Outcome, error) {
	if env.Delegate == nil || env.FS == nil || env.ToolName == "" {
		return nil, errors.NewPreconditionError("parser environment is incomplete (delegate, filesystem and tool name must be set)")
	}
	if len(argv) == 0 {
		fmt.Fprint(env.Stdout, Usage(env.ToolName))
		return exitOutcome(errors.ExitUsage)
	}

	opts := defaultOptions(env.Cwd)
	var subcommand, queue, database, address string

	if argv[0] == "worker" || argv[0] == "server" {
		subcommand = argv[0]
		argv = argv[1:]
	}

	i := 0
	next := func(opt string) (string, error) {
		i++
		if i >= len(argv) {
			return "", errors.NewValidationError(opt, "missing required argument")
		}
		return argv[i], nil
	}

	for ; i < len(argv); i++ {
		tok := argv[i]
		if !strings.HasPrefix(tok, "-") {
			break
		}
		var err error
		switch tok {
		case "-l", "--log-level":
			opts.LogLevel, err = next(tok)
		case "--log-filename":
			opts.LogFilename, err = next(tok)
		case "-m", "--mets":
			opts.METS, err = next(tok)
		case "-w", "--working-dir":
			opts.WorkingDir, err = next(tok)
		case "-U", "--mets-server-url":
			opts.METSServerURL, err = next(tok)
		case "-g", "--page-id":
			opts.PageID, err = next(tok)
		case "-I", "--input-file-grp":
			opts.InputFileGrp, err = next(tok)
		case "-O", "--output-file-grp":
			opts.OutputFileGrp, err = next(tok)
		case "-p", "--parameter":
			var ref string
			if ref, err = next(tok); err == nil {
				opts.Parameters = append(opts.Parameters, ref)
			}
		case "-P", "--parameter-override":
			var key, value string
			if key, err = next(tok); err == nil {
				if value, err = next(tok); err == nil {
					opts.Overrides = append(opts.Overrides, ocrd.Override{Key: key, Value: value})
				}
			}
		case "--debug":
			opts.Debug = true
		case "--overwrite":
			opts.Overwrite = true
		case "--profile":
			opts.Profile = true
		case "--profile-file":
			opts.ProfileFile, err = next(tok)
		case "--queue":
			queue, err = next(tok)
		case "--database":
			database, err = next(tok)
		case "--address":
			address, err = next(tok)
		case "-h", "--help", "--usage":
			fmt.Fprint(env.Stdout, Usage(env.ToolName))
			return exitOutcome(0)
		case "-V", "--version":
			current, verr := env.Delegate.Version()
			if verr != nil {
				return nil, verr
			}
			fmt.Fprintf(env.Stdout, "%s, ocrd/core %s\n", env.ToolName, current)
			return exitOutcome(0)
		case "-J", "--dump-json":
			dump, derr := env.Delegate.DumpTool(env.Descriptor, env.ToolName)
			if derr != nil {
				return nil, derr
			}
			fmt.Fprint(env.Stdout, dump)
			return exitOutcome(0)
		case "-D", "--dump-module-dir":
			fmt.Fprintln(env.Stdout, filepath.Dir(env.Descriptor))
			return exitOutcome(0)
		case "-C", "--show-resource":
			var name string
			if name, err = next(tok); err != nil {
				return nil, err
			}
			body, serr := env.Delegate.ShowResource(env.Descriptor, env.ToolName, name)
			if serr != nil {
				return nil, serr
			}
			fmt.Fprint(env.Stdout, body)
			return exitOutcome(0)
		case "-L", "--list-resources":
			listing, lerr := env.Delegate.ListResources(env.Descriptor, env.ToolName)
			if lerr != nil {
				return nil, lerr
			}
			fmt.Fprintln(env.Stdout, strings.TrimRight(listing, "\n"))
			return exitOutcome(0)
		default:
			return nil, errors.NewValidationError(tok, "unrecognized option")
		}
		if err != nil {
			return nil, err
		}
	}

	// Worker/server mode is decided before ordinary-mode validation so
	// networked invocations never require a METS file.
	if subcommand != "" || queue != "" || database != "" || address != "" {
		return dispatchMode(opts, subcommand, queue, database, address)
	}

	if err := validate(opts, env); err != nil {
		return nil, err
	}

	if err := setupProfiling(opts, env); err != nil {
		return nil, err
	}

	params, paramsJSON, err := ocrd.ResolveParameters(env.Delegate, env.Descriptor, env.ToolName, opts.Parameters, opts.Overrides)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:       OutcomeContinue,
		Options:    opts,
		Params:     params,
		ParamsJSON: paramsJSON,
	}, nil
}

func dispatchMode(opts *Options, subcommand, queue, database, address string) (*Outcome, error) {
	if subcommand == "" {
		return nil, errors.NewValidationError("subcommand",
			"--queue, --database and --address are only valid for the worker and server subcommands; provide a subcommand")
	}
	if database == "" {
		return nil, errors.NewValidationError("database",
			"option --database is required for subcommand "+subcommand)
	}
	switch subcommand {
	case "worker":
		if queue == "" {
			return nil, errors.NewValidationError("queue", "option --queue is required for subcommand worker")
		}
		return &Outcome{
			Kind:    OutcomeWorker,
			Options: opts,
			Worker:  &ocrd.WorkerSpec{Queue: queue, Database: database, LogFile: opts.LogFilename},
		}, nil
	case "server":
		if address == "" {
			return nil, errors.NewValidationError("address", "option --address is required for subcommand server")
		}
		return &Outcome{
			Kind:    OutcomeServer,
			Options: opts,
			Server:  &ocrd.ServerSpec{Address: address, Database: database, LogFile: opts.LogFilename},
		}, nil
	}
	return nil, errors.NewPreconditionError("internal error: unhandled subcommand %q", subcommand)
}

func validate(opts *Options, env *Env) error {
	opts.METS = absPath(opts.METS, env.Cwd)
	if ok, _ := afero.Exists(env.FS, opts.METS); !ok {
		return errors.NewPreconditionError("METS file %s does not exist", opts.METS)
	}

	if opts.WorkingDir == "" {
		opts.WorkingDir = filepath.Dir(opts.METS)
	} else {
		opts.WorkingDir = absPath(opts.WorkingDir, env.Cwd)
	}
	if ok, _ := afero.DirExists(env.FS, opts.WorkingDir); !ok {
		return errors.NewPreconditionError("working directory %s does not exist", opts.WorkingDir)
	}

	if opts.LogLevel == "" {
		opts.LogLevel = "INFO"
	}
	if !logging.IsValidLevel(opts.LogLevel) {
		return errors.NewValidationError("log-level",
			"invalid log level '"+opts.LogLevel+"', must be one of "+strings.Join(logging.Levels, ", "))
	}

	if opts.InputFileGrp == "" || opts.OutputFileGrp == "" {
		return errors.NewValidationError("file-grp",
			"provide an input file group with -I/--input-file-grp and an output file group with -O/--output-file-grp")
	}
	if strings.Contains(opts.InputFileGrp, ",") || strings.Contains(opts.OutputFileGrp, ",") {
		log.Info().
			Str("input", opts.InputFileGrp).
			Str("output", opts.OutputFileGrp).
			Msg("multiple file groups given, processors usually expect exactly one")
	}
	return nil
}

// setupProfiling installs the trace stream when profiling was requested,
// either explicitly or through the environment.
func setupProfiling(opts *Options, env *Env) error {
	if !opts.Profile && strings.Contains(config.String("OCRD_PROFILE"), "CPU") {
		opts.Profile = true
	}
	if opts.ProfileFile == "" && config.IsSet("OCRD_PROFILE_FILE") {
		opts.ProfileFile = config.String("OCRD_PROFILE_FILE")
	}
	if !opts.Profile && opts.ProfileFile == "" {
		return nil
	}
	out := env.Stderr
	if opts.ProfileFile != "" {
		f, err := env.FS.OpenFile(absPath(opts.ProfileFile, env.Cwd), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.NewPreconditionError("cannot open profile file %s: %v", opts.ProfileFile, err)
		}
		out = f
	}
	env.Tracer = trace.New(out)
	env.Tracer.Step("profiling enabled for %s", env.ToolName)
	return nil
}
