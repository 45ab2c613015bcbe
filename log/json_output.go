package log

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sagernet/sing/common"
)

var _ Output = (*JSONOutput)(nil)

// JSONOutput formats logs as JSON
type JSONOutput struct {
	writer   io.Writer
	encoder  *json.Encoder
	file     *os.File
	filePath string
	hostname string
}

// NewJSONOutput creates a new JSON output
func NewJSONOutput(writer io.Writer, filePath, hostname string) Output {
	output := &JSONOutput{
		writer:   writer,
		filePath: filePath,
		hostname: hostname,
	}
	if writer != nil {
		output.encoder = json.NewEncoder(writer)
	}
	return output
}

// Start opens the file if this is a file output
func (o *JSONOutput) Start() error {
	if o.filePath != "" && o.writer == nil {
		file, err := os.OpenFile(o.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		o.file = file
		o.writer = file
		o.encoder = json.NewEncoder(file)
	}
	return nil
}

// Write writes a JSON-formatted log entry
func (o *JSONOutput) Write(entry LogEntry) error {
	if o.encoder == nil {
		return nil
	}
	return o.encoder.Encode(o.buildJSONDocument(entry))
}

// Close flushes and closes the output
func (o *JSONOutput) Close() error {
	return common.Close(common.PtrOrNil(o.file))
}

func (o *JSONOutput) buildJSONDocument(entry LogEntry) map[string]any {
	doc := make(map[string]any)
	doc["@timestamp"] = entry.Timestamp.UTC().Format(time.RFC3339Nano)
	doc["level"] = FormatLevel(entry.Level)
	doc["message"] = entry.Message
	if entry.Tag != "" {
		doc["tag"] = entry.Tag
	}

	if entry.RequestID != 0 {
		request := make(map[string]any)
		request["id"] = entry.RequestID
		if entry.RequestDuration > 0 {
			request["duration_ms"] = entry.RequestDuration.Milliseconds()
		}
		doc["request"] = request
	}

	if o.hostname != "" {
		doc["host"] = map[string]any{"hostname": o.hostname}
	}

	if entry.Event != nil {
		event := make(map[string]any, len(entry.Event.Data)+1)
		for k, v := range entry.Event.Data {
			event[k] = v
		}
		event["type"] = string(entry.Event.Type)
		doc["event"] = event
	}

	return doc
}
