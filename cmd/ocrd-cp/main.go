// ocrd-cp is the example processor of this library: it copies the selected
// input files of a workspace into a new file group, unchanged. It exists to
// demonstrate (and exercise) the full invocation contract end to end.
//
// Usage:
//
//	ocrd-cp -I OCR-D-IMG -O OCR-D-COPY [-g PHYS_0001] [-p params.json]
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"ocrdkit/internal/cli"
	"ocrdkit/internal/config"
	"ocrdkit/internal/ocrd"
	"ocrdkit/internal/processor"
)

const toolName = "ocrd-cp"

func main() {
	config.LoadEnv()

	cwd, err := os.Getwd()
	if err != nil {
		fatal(err)
	}
	env := &cli.Env{
		Cwd:    cwd,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	inv, outcome, err := processor.Run(descriptorPath(), toolName, os.Args[1:], env)
	if err != nil {
		fatal(err)
	}

	switch outcome.Kind {
	case cli.OutcomeExit:
		os.Exit(outcome.Code)
	case cli.OutcomeWorker:
		code, err := env.Delegate.DispatchWorker(toolName, *outcome.Worker)
		if err != nil {
			fatal(err)
		}
		os.Exit(code)
	case cli.OutcomeServer:
		code, err := env.Delegate.DispatchServer(toolName, *outcome.Server)
		if err != nil {
			fatal(err)
		}
		os.Exit(code)
	}

	if err := copyFiles(inv, env); err != nil {
		fatal(err)
	}
}

// copyFiles performs the per-file logic: copy each input file into the
// output group directory and register it with the workspace.
func copyFiles(inv *processor.Invocation, env *cli.Env) error {
	opts := inv.Options
	message := inv.Params["message"]

	outDir := filepath.Join(opts.WorkingDir, opts.OutputFileGrp)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for i, file := range inv.Files {
		src := strings.TrimPrefix(file.LocalFilename, "file://")
		if !filepath.IsAbs(src) {
			src = filepath.Join(opts.WorkingDir, src)
		}
		dst := filepath.Join(outDir, file.OutputFileID+filepath.Ext(src))

		env.Tracer.Step("copying %s to %s", src, dst)
		if message != "" {
			log.Info().Str("page", file.PageID).Msg(message)
		}
		log.Debug().Str("src", src).Str("dst", dst).Msg("copying input file")

		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", inv.Field(i, "ID"), err)
		}

		err := env.Delegate.AddFile(ocrd.AddFileRequest{
			WorkingDir:    opts.WorkingDir,
			METSServerURL: opts.METSServerURL,
			FileGrp:       opts.OutputFileGrp,
			FileID:        file.OutputFileID,
			PageID:        file.PageID,
			MIMEType:      file.MIMEType,
			LocalFilename: dst,
		})
		if err != nil {
			return err
		}
	}
	log.Info().Int("files", len(inv.Files)).Str("output", opts.OutputFileGrp).Msg("done")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// descriptorPath locates the tool descriptor: $OCRD_TOOL_JSON when set,
// otherwise ocrd-tool.json next to the executable.
func descriptorPath() string {
	if path := os.Getenv("OCRD_TOOL_JSON"); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "ocrd-tool.json"
	}
	return filepath.Join(filepath.Dir(exe), "ocrd-tool.json")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", toolName, err)
	os.Exit(processor.ExitCode(err))
}
