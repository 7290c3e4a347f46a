// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"encoding/json"
	"io"
	"time"
)

// SimpleLogger writes each message as a single line of JSON.
type SimpleLogger struct {
	encoder *json.Encoder
	now     func() time.Time
}

func (s *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	obj := map[string]interface{}{}
	for _, f := range fields {
		for k, v := range f {
			obj[k] = v
		}
	}
	obj["msg"] = msg
	obj["ts"] = s.now().Format(time.RFC3339)
	return s.encoder.Encode(obj)
}

func NewSimpleLogger(w io.Writer) *SimpleLogger {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &SimpleLogger{
		encoder: encoder,
		now:     time.Now,
	}
}
