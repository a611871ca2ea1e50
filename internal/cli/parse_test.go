package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrdkit/internal/ocrd"
)

func newEnv(t *testing.T) (*Env, *ocrd.Fake, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/mets.xml", []byte("<mets/>"), 0o644))
	fake := &ocrd.Fake{
		VersionString: "3.0.0",
		Tools:         []string{"ocrd-cp"},
		ToolJSON:      `{"executable": "ocrd-cp"}`,
	}
	var stdout bytes.Buffer
	env := &Env{
		Delegate:   fake,
		FS:         fs,
		Cwd:        "/data",
		Descriptor: "/data/ocrd-tool.json",
		ToolName:   "ocrd-cp",
		Stdout:     &stdout,
		Stderr:     &bytes.Buffer{},
	}
	return env, fake, &stdout
}

func TestParseEmptyArgvPrintsUsage(t *testing.T) {
	env, _, stdout := newEnv(t)

	outcome, err := Parse(nil, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, 1, outcome.Code)
	assert.Contains(t, stdout.String(), "Usage: ocrd-cp")
}

func TestParseDefaults(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"-I", "OCR-D-IMG", "-O", "OCR-D-OUT"}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeContinue, outcome.Kind)

	opts := outcome.Options
	assert.Equal(t, "/data/mets.xml", opts.METS)
	assert.Equal(t, "/data", opts.WorkingDir)
	assert.Equal(t, "INFO", opts.LogLevel)
	assert.False(t, opts.Debug)
	assert.False(t, opts.Overwrite)
	assert.False(t, opts.Profile)
	assert.Empty(t, opts.ProfileFile)
	assert.Empty(t, opts.METSServerURL)
}

func TestParseAllProcessingOptions(t *testing.T) {
	env, _, _ := newEnv(t)
	require.NoError(t, env.FS.MkdirAll("/work", 0o755))

	outcome, err := Parse([]string{
		"-m", "/data/mets.xml",
		"-w", "/work",
		"-I", "A", "-O", "B",
		"-g", "PHYS_0001,PHYS_0002",
		"-U", "http://localhost:8123",
		"-l", "DEBUG",
		"--debug", "--overwrite",
		"-p", "preset", "-p", "/params.json",
		"-P", "dpi", "600",
	}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeContinue, outcome.Kind)

	opts := outcome.Options
	assert.Equal(t, "/work", opts.WorkingDir)
	assert.Equal(t, "PHYS_0001,PHYS_0002", opts.PageID)
	assert.Equal(t, "http://localhost:8123", opts.METSServerURL)
	assert.Equal(t, "DEBUG", opts.LogLevel)
	assert.True(t, opts.Debug)
	assert.True(t, opts.Overwrite)
	assert.Equal(t, []string{"preset", "/params.json"}, opts.Parameters)
	assert.Equal(t, []ocrd.Override{{Key: "dpi", Value: "600"}}, opts.Overrides)
}

func TestParseMissingMETS(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-m", "/nonexistent/mets.xml", "-I", "A", "-O", "B"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/mets.xml")
	assert.Contains(t, err.Error(), "does not exist")
}

func TestParseMissingWorkingDir(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-w", "/nope", "-I", "A", "-O", "B"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope")
}

func TestParseInvalidLogLevel(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-I", "A", "-O", "B", "-l", "BOGUS"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOGUS")
}

func TestParseMissingFileGrps(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-m", "/data/mets.xml"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input-file-grp")
	assert.Contains(t, err.Error(), "--output-file-grp")
}

func TestParseUnknownOption(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"--frobnicate"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--frobnicate")
}

func TestParseMissingOptionArgument(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-I", "A", "-O", "B", "-l"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-l")
}

func TestParseHelpWinsOverInvalidArguments(t *testing.T) {
	env, _, stdout := newEnv(t)

	outcome, err := Parse([]string{"-m", "/nonexistent/mets.xml", "--help"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, 0, outcome.Code)
	assert.Contains(t, stdout.String(), "Usage: ocrd-cp")
}

func TestParseVersion(t *testing.T) {
	env, _, stdout := newEnv(t)

	outcome, err := Parse([]string{"--version"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, 0, outcome.Code)
	assert.Contains(t, stdout.String(), "ocrd-cp")
	assert.Contains(t, stdout.String(), "3.0.0")
}

func TestParseDumpJSON(t *testing.T) {
	env, _, stdout := newEnv(t)

	outcome, err := Parse([]string{"-J"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Contains(t, stdout.String(), `"executable": "ocrd-cp"`)
}

func TestParseDumpModuleDir(t *testing.T) {
	env, _, stdout := newEnv(t)

	outcome, err := Parse([]string{"-D"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, "/data\n", stdout.String())
}

func TestParseShowResource(t *testing.T) {
	env, fake, stdout := newEnv(t)
	fake.ResourceBody = map[string]string{"model.bin": "weights"}

	outcome, err := Parse([]string{"-C", "model.bin"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, "weights", stdout.String())
}

func TestParseShowResourceUnknown(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"-C", "missing.bin"}, env)
	require.Error(t, err)
}

func TestParseListResources(t *testing.T) {
	env, fake, stdout := newEnv(t)
	fake.Resources = map[string]string{"a.bin": "/r/a.bin", "b.bin": "/r/b.bin"}

	outcome, err := Parse([]string{"-L"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExit, outcome.Kind)
	assert.Equal(t, "a.bin\nb.bin\n", stdout.String())
}

func TestParseWorkerRequiresDatabase(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"worker", "--queue", "amqp://localhost"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--database")
}

func TestParseWorkerRequiresQueue(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"worker", "--database", "mongodb://localhost"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--queue")
}

func TestParseServerRequiresAddress(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"server", "--database", "mongodb://localhost"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--address")
}

func TestParseNetworkOptionsRequireSubcommand(t *testing.T) {
	env, _, _ := newEnv(t)

	_, err := Parse([]string{"--queue", "amqp://localhost", "--database", "mongodb://localhost"}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subcommand")
}

func TestParseWorkerHandoffSkipsOrdinaryValidation(t *testing.T) {
	env, _, _ := newEnv(t)

	// No METS file, no file groups: a worker invocation must not need them.
	outcome, err := Parse([]string{"worker",
		"-m", "/nonexistent/mets.xml",
		"--queue", "amqp://localhost",
		"--database", "mongodb://localhost",
	}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeWorker, outcome.Kind)
	assert.Equal(t, "amqp://localhost", outcome.Worker.Queue)
	assert.Equal(t, "mongodb://localhost", outcome.Worker.Database)
}

func TestParseServerHandoff(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"server",
		"--address", "0.0.0.0:8080",
		"--database", "mongodb://localhost",
	}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeServer, outcome.Kind)
	assert.Equal(t, "0.0.0.0:8080", outcome.Server.Address)
}

func TestParseResolvesParameters(t *testing.T) {
	env, fake, _ := newEnv(t)
	fake.Defaults = map[string]string{"dpi": "300"}
	fake.Resources = map[string]string{"preset": "/r/preset.json"}

	outcome, err := Parse([]string{"-I", "A", "-O", "B", "-p", "preset", "-P", "dpi", "600"}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeContinue, outcome.Kind)
	assert.Equal(t, "600", outcome.Params["dpi"])
	assert.NotEmpty(t, outcome.ParamsJSON)
	require.Len(t, fake.ParseCalls, 2)
	assert.Equal(t, []string{"/r/preset.json"}, fake.ParseCalls[0])
}

func TestParseProfileFile(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"-I", "A", "-O", "B", "--profile", "--profile-file", "/data/profile.log"}, env)
	require.NoError(t, err)
	require.Equal(t, OutcomeContinue, outcome.Kind)
	require.NotNil(t, env.Tracer)

	content, err := afero.ReadFile(env.FS, "/data/profile.log")
	require.NoError(t, err)
	assert.Contains(t, string(content), "profiling enabled for ocrd-cp")
}

func TestParseProfileFromEnvironment(t *testing.T) {
	env, _, _ := newEnv(t)
	t.Setenv("OCRD_PROFILE", "CPU")

	outcome, err := Parse([]string{"-I", "A", "-O", "B"}, env)
	require.NoError(t, err)
	assert.True(t, outcome.Options.Profile)
	assert.NotNil(t, env.Tracer)
}

func TestParseStopsAtFirstPositional(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"-I", "A", "-O", "B", "positional", "--not-an-option"}, env)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome.Kind)
}

func TestParseRelativeMETSResolvedAgainstCwd(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"-m", "mets.xml", "-I", "A", "-O", "B"}, env)
	require.NoError(t, err)
	assert.Equal(t, "/data/mets.xml", outcome.Options.METS)
}

func TestParseFileURLMETS(t *testing.T) {
	env, _, _ := newEnv(t)

	outcome, err := Parse([]string{"-m", "file:///data/mets.xml", "-I", "A", "-O", "B"}, env)
	require.NoError(t, err)
	assert.Equal(t, "/data/mets.xml", outcome.Options.METS)
}
