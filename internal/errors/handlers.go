package errors

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for the CLI and the interactive shell
type CLIErrorHandler struct {
	Verbose bool
	logger  *log.Logger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(logger *log.Logger, verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
		logger:  logger,
	}
}

// HandleError logs err when verbose and returns it formatted for display
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	if h.Verbose && h.logger != nil {
		h.logger.Debug("command failed",
			"code", appErr.Code,
			"severity", appErr.Severity,
			"err", appErr.Error())
	}

	return fmt.Errorf("%s", h.FormatError(err))
}

// FormatError formats an error for terminal display
func (h *CLIErrorHandler) FormatError(err error) string {
	if !IsAppError(err) {
		return fmt.Sprintf("[-] ERROR: %v", err)
	}
	appErr := GetAppError(err)

	// Lookup misses are shown verbatim, the way the shell always has.
	if IsNotFound(appErr) {
		return appErr.Message
	}

	message := appErr.Message
	if appErr.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, appErr.Cause)
	}
	if h.Verbose && appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("[!] CRITICAL: %s", message)
	case SeverityError:
		return fmt.Sprintf("[-] ERROR: %s", message)
	case SeverityWarning:
		return fmt.Sprintf("[-] WARNING: %s", message)
	case SeverityInfo:
		return fmt.Sprintf("[*] %s", message)
	default:
		return fmt.Sprintf("[-] %s", message)
	}
}
