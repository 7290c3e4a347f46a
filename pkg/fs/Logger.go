// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

// Logger receives diagnostic messages.  A nil Logger disables diagnostics.
type Logger interface {
	Log(msg string, fields ...map[string]interface{}) error
}

// Log sends the message to the logger if the logger is not nil.
func Log(logger Logger, msg string, fields ...map[string]interface{}) {
	if logger != nil {
		_ = logger.Log(msg, fields...)
	}
}
