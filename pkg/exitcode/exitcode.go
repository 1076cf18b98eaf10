// Package exitcode provides standardized exit codes for goproj
package exitcode

// Exit codes for goproj CLI
const (
	Success           = 0
	GeneralError      = 1
	MalformedManifest = 2
	TargetNotFound    = 3
	NotFound          = 4
	DependentsExist   = 5
	DuplicateName     = 6
	ValidationError   = 7
	FileSystemError   = 8
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case MalformedManifest:
		return "Malformed manifest"
	case TargetNotFound:
		return "Target phase or group not found"
	case NotFound:
		return "File not found"
	case DependentsExist:
		return "Dependents exist"
	case DuplicateName:
		return "Duplicate display name"
	case ValidationError:
		return "Integrity validation failed"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}
