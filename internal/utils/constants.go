package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".printdir"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the configuration file read from the working directory.
	LocalConfigFileName = ".printdir.yaml"
	// IgnoreFileName is the name of the per-directory ignore file.
	IgnoreFileName = ".printdirignore"
)
