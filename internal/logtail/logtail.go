package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields nil.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		// Compact once the slice holds twice the window.
		if maxLines > 0 && len(lines) >= 2*maxLines {
			lines = append(lines[:0], lines[len(lines)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   string
	Logger  string
	Message string
	// Fields holds the remaining structured fields as key=value pairs,
	// sorted by key.
	Fields []string
	// Raw is set when the line was not a JSON log record.
	Raw string
}

var reservedKeys = map[string]bool{
	"ts": true, "time": true, "level": true, "logger": true,
	"msg": true, "message": true, "caller": true, "stacktrace": true,
}

// Parse decodes a JSON log record. Lines that are not JSON objects come back
// with only Raw set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{Raw: line}
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return Entry{Raw: line}
	}

	e := Entry{
		Time:    firstString(record, "ts", "time"),
		Level:   strings.ToUpper(firstString(record, "level")),
		Logger:  firstString(record, "logger"),
		Message: firstString(record, "msg", "message"),
	}
	keys := make([]string, 0, len(record))
	for k := range record {
		if !reservedKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Fields = append(e.Fields, fmt.Sprintf("%s=%v", k, record[k]))
	}
	return e
}

func firstString(record map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := record[k].(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.3f", v)
		}
	}
	return ""
}
