package ocrd

import (
	goerrors "errors"
	"os"
	"os/exec"
	"strings"

	"ocrdkit/internal/errors"
)

// Launcher is the name of the external tool every non-trivial operation is
// delegated to.
const Launcher = "ocrd"

// Delegate is the capability surface of the external ocrd tool. A test
// double implements it in-process; Client invokes the real executable.
type Delegate interface {
	Available() bool
	Version() (string, error)
	ListTools(descriptor string) ([]string, error)
	DumpTool(descriptor, tool string) (string, error)
	ResolveResource(descriptor, tool, name string) (string, error)
	ShowResource(descriptor, tool, name string) (string, error)
	ListResources(descriptor, tool string) (string, error)
	ParseParameters(descriptor, tool string, refs []string, overrides []Override, asJSON bool) (string, error)
	InputFiles(req InputFilesRequest) ([]string, error)
	AddFile(req AddFileRequest) error
	DispatchWorker(tool string, spec WorkerSpec) (int, error)
	DispatchServer(tool string, spec ServerSpec) (int, error)
}

// Client shells out to the ocrd launcher. Every call is a blocking
// subprocess invocation without timeout or cancellation; a hang in the
// external tool hangs the whole invocation.
type Client struct {
	Launcher string
}

// NewClient creates a client for the given launcher executable.
func NewClient(launcher string) *Client {
	if launcher == "" {
		launcher = Launcher
	}
	return &Client{Launcher: launcher}
}

// Available reports whether the launcher executable is on the search path.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.Launcher)
	return err == nil
}

// run executes the launcher with args, capturing stdout. Stderr passes
// through so the delegate's own diagnostics stay visible.
func (c *Client) run(op string, args ...string) (string, error) {
	cmd := exec.Command(c.Launcher, args...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", errors.NewDelegateError(op, exitCode(err), strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

// Version asks the launcher for its version string ("ocrd, version X.Y.Z").
func (c *Client) Version() (string, error) {
	out, err := c.run("--version", "--version")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		return "", errors.NewDelegateError("--version", 0, out, goerrors.New("empty version output"))
	}
	return fields[len(fields)-1], nil
}

// ListTools returns the tool names known to the descriptor.
func (c *Client) ListTools(descriptor string) ([]string, error) {
	out, err := c.run("list-tools", "ocrd-tool", descriptor, "list-tools")
	if err != nil {
		return nil, err
	}
	var tools []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tools = append(tools, line)
		}
	}
	return tools, nil
}

// DumpTool returns the JSON description of a single tool.
func (c *Client) DumpTool(descriptor, tool string) (string, error) {
	return c.run("dump-json", "ocrd-tool", descriptor, "tool", tool, "dump-json")
}

// ResolveResource resolves a resource name to an absolute path.
func (c *Client) ResolveResource(descriptor, tool, name string) (string, error) {
	out, err := c.run("resolve-resource", "ocrd-tool", descriptor, "tool", tool, "resolve-resource", name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ShowResource prints the content of a named resource.
func (c *Client) ShowResource(descriptor, tool, name string) (string, error) {
	return c.run("show-resource", "ocrd-tool", descriptor, "tool", tool, "show-resource", name)
}

// ListResources lists the file resources available to a tool.
func (c *Client) ListResources(descriptor, tool string) (string, error) {
	return c.run("list-resources", "ocrd-tool", descriptor, "tool", tool, "list-resources")
}

// ParseParameters merges parameter files and overrides into a single
// representation: a shell-evaluable assignment script, or JSON when asJSON
// is set.
func (c *Client) ParseParameters(descriptor, tool string, refs []string, overrides []Override, asJSON bool) (string, error) {
	args := []string{"ocrd-tool", descriptor, "tool", tool, "parse-params"}
	for _, ref := range refs {
		args = append(args, "-p", ref)
	}
	for _, o := range overrides {
		args = append(args, "-P", o.Key, o.Value)
	}
	if asJSON {
		args = append(args, "-j")
	}
	return c.run("parse-params", args...)
}

// InputFiles asks the external tool for the resolved input-file list. Each
// returned element is one newline-delimited record, in enumeration order.
func (c *Client) InputFiles(req InputFilesRequest) ([]string, error) {
	args := []string{"bashlib", "input-files",
		"--ocrd-tool", req.Descriptor,
		"--executable", req.Tool,
		"-m", req.METS,
		"-d", req.WorkingDir,
		"-I", req.InputFileGrp,
		"-O", req.OutputFileGrp,
	}
	if req.Debug {
		args = append(args, "--debug")
	}
	if req.Overwrite {
		args = append(args, "--overwrite")
	}
	if req.METSServerURL != "" {
		args = append(args, "-U", req.METSServerURL)
	}
	if req.ParameterJSON != "" {
		args = append(args, "-p", req.ParameterJSON)
	}
	if req.PageID != "" {
		args = append(args, "-g", req.PageID)
	}
	out, err := c.run("input-files", args...)
	if err != nil {
		return nil, err
	}
	var records []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			records = append(records, line)
		}
	}
	return records, nil
}

// AddFile registers a produced file with the workspace.
func (c *Client) AddFile(req AddFileRequest) error {
	args := []string{"workspace", "-d", req.WorkingDir}
	if req.METSServerURL != "" {
		args = append(args, "-U", req.METSServerURL)
	}
	args = append(args, "add",
		"-G", req.FileGrp,
		"-i", req.FileID,
		"-m", req.MIMEType,
	)
	if req.PageID != "" {
		args = append(args, "-g", req.PageID)
	}
	args = append(args, req.LocalFilename)
	_, err := c.run("workspace add", args...)
	return err
}

// DispatchWorker hands the process over to the networked worker runtime.
// Stdio is passed through; the returned code is the worker's own exit code.
func (c *Client) DispatchWorker(tool string, spec WorkerSpec) (int, error) {
	args := []string{"network", "processing-worker", tool,
		"--queue", spec.Queue,
		"--database", spec.Database,
	}
	if spec.LogFile != "" {
		args = append(args, "--log-filename", spec.LogFile)
	}
	return c.passthrough("processing-worker", args)
}

// DispatchServer hands the process over to the networked server runtime.
func (c *Client) DispatchServer(tool string, spec ServerSpec) (int, error) {
	args := []string{"network", "processor-server", tool,
		"--address", spec.Address,
		"--database", spec.Database,
	}
	if spec.LogFile != "" {
		args = append(args, "--log-filename", spec.LogFile)
	}
	return c.passthrough("processor-server", args)
}

// passthrough runs the launcher with inherited stdio, returning its exit
// code. This is the terminal hand-off: the caller is expected to exit with
// the returned code and never resume its own logic.
func (c *Client) passthrough(op string, args []string) (int, error) {
	cmd := exec.Command(c.Launcher, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if goerrors.As(err, &ee) {
			return ee.ExitCode(), nil
		}
		return errors.ExitFatal, errors.NewDelegateError(op, errors.ExitFatal, "", err)
	}
	return 0, nil
}

func exitCode(err error) int {
	var ee *exec.ExitError
	if goerrors.As(err, &ee) {
		return ee.ExitCode()
	}
	return errors.ExitFatal
}
