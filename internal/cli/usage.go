package cli

import "strings"

const usageTemplate = `Usage: {{TOOL}} [worker|server] [OPTIONS]

  Options for processing:
    -m, --mets URL-PATH             URL or file path of METS to process [./mets.xml]
    -w, --working-dir PATH          Working directory of local workspace [dirname of METS]
    -I, --input-file-grp GRP        File group(s) used as input
    -O, --output-file-grp GRP       File group(s) used as output
    -g, --page-id ID                Physical page ID(s) to process
    -U, --mets-server-url URL       URL of a METS server for parallel processing
    -p, --parameter JSON-PATH       Parameters, either verbatim JSON string
                                    or JSON file path
    -P, --parameter-override KEY VAL Override a single JSON object key-value pair
    --overwrite                     Remove existing output pages/images
    --debug                         Abort on any errors with full stack trace
    --profile                       Enable profiling
    --profile-file FILE             Write profiling trace to this file

  Options for logging:
    -l, --log-level LEVEL           Log level (OFF ERROR WARN INFO DEBUG TRACE) [INFO]
    --log-filename FILE             Redirect log output to this file

  Options for network agents (subcommand worker or server):
    --queue ADDRESS                 Address of the processing queue (worker)
    --address ADDRESS               Host and port to bind to (server)
    --database ADDRESS              Address of the database

  Information on this tool:
    -J, --dump-json                 Dump tool description as JSON
    -D, --dump-module-dir           Print the module directory
    -L, --list-resources            List known resource file names
    -C, --show-resource NAME        Print the content of resource NAME
    -h, --help, --usage             Print this message
    -V, --version                   Print version
`

// Usage renders the usage message for the given tool name.
func Usage(toolName string) string {
	return strings.ReplaceAll(usageTemplate, "{{TOOL}}", toolName)
}
