package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "jsast"

	// ConfigFileName is the file written by `jsast init`
	ConfigFileName = ".jsast.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "JSAST"

	// ConfigEnvVar names an explicit configuration file
	ConfigEnvVar = "JSAST_CONFIG"
)

// Output format constants
const (
	OutputFormatText  = "text"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Walk order names
const (
	WalkOrderPre   = "pre"
	WalkOrderLevel = "level"
)

// Defaults shared by config and CLI
const (
	DefaultMaxFileSize = "2MB"
	DefaultLogLevel    = "warn"
)
