package ocrd

// Override is a single -P/--parameter-override key/value pair.
type Override struct {
	Key   string
	Value string
}

// WorkerSpec describes a processing-worker hand-off.
type WorkerSpec struct {
	Queue    string
	Database string
	LogFile  string
}

// ServerSpec describes a processor-server hand-off.
type ServerSpec struct {
	Address  string
	Database string
	LogFile  string
}

// InputFilesRequest carries everything the external tool needs to enumerate
// the selected input files of a workspace.
type InputFilesRequest struct {
	Descriptor    string
	Tool          string
	Debug         bool
	Overwrite     bool
	METS          string
	WorkingDir    string
	METSServerURL string
	ParameterJSON string
	InputFileGrp  string
	OutputFileGrp string
	PageID        string
}

// AddFileRequest registers a newly produced file in the workspace.
type AddFileRequest struct {
	WorkingDir    string
	METSServerURL string
	FileGrp       string
	FileID        string
	PageID        string
	MIMEType      string
	LocalFilename string
}
