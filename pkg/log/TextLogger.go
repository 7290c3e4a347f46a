// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

const (
	VerbosePrefix = "[verbose]"
)

// TextLogger writes each message as a line of text prefixed with "[verbose]",
// followed by the fields as key=value pairs sorted by key.
type TextLogger struct {
	writer io.Writer
	prefix string
}

func (t *TextLogger) Log(msg string, fields ...map[string]interface{}) error {
	merged := map[string]interface{}{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(t.prefix)
	b.WriteString(" ")
	b.WriteString(msg)
	for _, k := range keys {
		switch v := merged[k].(type) {
		case string:
			fmt.Fprintf(&b, " %s=%q", k, v)
		case fmt.Stringer:
			fmt.Fprintf(&b, " %s=%q", k, v.String())
		default:
			fmt.Fprintf(&b, " %s=%v", k, v)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(t.writer, b.String())
	return err
}

// NewTextLogger returns a new TextLogger.  If colorize is true, the prefix is printed in cyan.
func NewTextLogger(w io.Writer, colorize bool) *TextLogger {
	return &TextLogger{
		writer: w,
		prefix: Colorize(VerbosePrefix, color.FgCyan, colorize),
	}
}

// Colorize wraps the text in the escape sequences for the given color, if enabled.
func Colorize(text string, attribute color.Attribute, enabled bool) string {
	c := color.New(attribute)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}
