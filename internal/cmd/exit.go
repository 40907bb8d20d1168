// Package cmd provides CLI command implementations.
package cmd

// Exit codes reported by the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitUsageError indicates invalid arguments or flags.
	ExitUsageError = 2

	// ExitSchemaError indicates the schema document failed to load or
	// validate.
	ExitSchemaError = 3

	// ExitCompileError indicates the transform pipeline rejected the
	// schema.
	ExitCompileError = 4

	// ExitOutputError indicates compiled artifacts could not be written.
	ExitOutputError = 5

	// ExitDiffDifferences indicates diff found differences between the
	// compared stack sets.
	ExitDiffDifferences = 10
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitUsageError:
		return "Usage Error"
	case ExitSchemaError:
		return "Schema Error"
	case ExitCompileError:
		return "Compile Error"
	case ExitOutputError:
		return "Output Error"
	case ExitDiffDifferences:
		return "Differences Found"
	default:
		return "Unknown"
	}
}
