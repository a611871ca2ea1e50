package ocrd

import (
	"encoding/json"
	"sort"
	"strings"
)

// Fake is an in-process Delegate for unit tests. It resolves parameters
// from a fixed map, serves a fixed input-file list, and records hand-off
// calls instead of replacing the process.
type Fake struct {
	VersionString string
	Tools         []string
	ToolJSON      string
	Resources     map[string]string // name -> resolved path
	ResourceBody  map[string]string // name -> content
	Defaults      map[string]string // parameter defaults from the descriptor
	Records       []string

	Unavailable bool
	Err         error // when set, every call fails with it

	ParseCalls   [][]string
	WorkerCalls  []WorkerSpec
	ServerCalls  []ServerSpec
	AddedFiles   []AddFileRequest
	DispatchCode int
}

var _ Delegate = (*Fake)(nil)

func (f *Fake) Available() bool {
	return !f.Unavailable
}

func (f *Fake) Version() (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.VersionString, nil
}

func (f *Fake) ListTools(descriptor string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Tools, nil
}

func (f *Fake) DumpTool(descriptor, tool string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.ToolJSON, nil
}

func (f *Fake) ResolveResource(descriptor, tool, name string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if path, ok := f.Resources[name]; ok {
		return path, nil
	}
	return "", &notFoundError{name}
}

func (f *Fake) ShowResource(descriptor, tool, name string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if body, ok := f.ResourceBody[name]; ok {
		return body, nil
	}
	return "", &notFoundError{name}
}

func (f *Fake) ListResources(descriptor, tool string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	names := make([]string, 0, len(f.Resources))
	for name := range f.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

// ParseParameters merges Defaults with overrides the way the external tool
// does, emitting either assignments or JSON.
func (f *Fake) ParseParameters(descriptor, tool string, refs []string, overrides []Override, asJSON bool) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.ParseCalls = append(f.ParseCalls, append([]string(nil), refs...))

	merged := make(map[string]string, len(f.Defaults))
	for k, v := range f.Defaults {
		merged[k] = v
	}
	for _, o := range overrides {
		merged[o.Key] = o.Value
	}

	if asJSON {
		raw, err := json.Marshal(merged)
		return string(raw), err
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("='")
		b.WriteString(merged[k])
		b.WriteString("'\n")
	}
	return b.String(), nil
}

func (f *Fake) InputFiles(req InputFilesRequest) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records, nil
}

func (f *Fake) AddFile(req AddFileRequest) error {
	if f.Err != nil {
		return f.Err
	}
	f.AddedFiles = append(f.AddedFiles, req)
	return nil
}

func (f *Fake) DispatchWorker(tool string, spec WorkerSpec) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.WorkerCalls = append(f.WorkerCalls, spec)
	return f.DispatchCode, nil
}

func (f *Fake) DispatchServer(tool string, spec ServerSpec) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.ServerCalls = append(f.ServerCalls, spec)
	return f.DispatchCode, nil
}

type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return "resource not found: " + e.name
}
