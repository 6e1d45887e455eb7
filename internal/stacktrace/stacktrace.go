package stacktrace

import (
	"regexp"
	"strconv"
)

// Frame represents one stack-trace entry: a single call-stack level at
// the moment the exception was thrown.
type Frame struct {
	ClassName  string `json:"class_name"`  // Fully qualified class (e.g., "com.example.parser.JsonParser")
	MethodName string `json:"method_name"` // Method name without parameters
	FileName   string `json:"file_name"`   // Simple file name (e.g., "JsonParser.java")
	LineNumber int    `json:"line_number"` // 1-indexed line number
}

// ExceptionInfo is the structured form of a raw stack trace.
// Frames[0] is the throw site (root cause); order matches the text.
type ExceptionInfo struct {
	ExceptionType string  `json:"exception_type"`
	Message       string  `json:"message"`
	Frames        []Frame `json:"frames"`
}

// HasFrames reports whether at least one frame was parsed.
func (e *ExceptionInfo) HasFrames() bool {
	return len(e.Frames) > 0
}

var (
	// "java.lang.NullPointerException: Cannot invoke ..." at line start
	exceptionPattern = regexp.MustCompile(`(?m)^([\w.]+(?:Exception|Error|Throwable)): (.+)`)

	// Header without a message part.
	simpleExceptionPattern = regexp.MustCompile(`(?m)^([\w.]+(?:Exception|Error|Throwable))`)

	// "at com.example.Foo.bar(Foo.java:42)" anywhere in the text.
	framePattern = regexp.MustCompile(`at\s+([\w.]+)\.(\w+)\(([\w.]+):(\d+)\)`)
)

// Parse extracts the exception type, message, and ordered frames from
// raw stack-trace text. Lines that do not match the frame convention are
// skipped silently; zero frames is a valid outcome and the caller
// decides how to report it.
func Parse(text string) *ExceptionInfo {
	info := &ExceptionInfo{Frames: []Frame{}}

	if m := exceptionPattern.FindStringSubmatch(text); m != nil {
		info.ExceptionType = m[1]
		info.Message = m[2]
	} else if m := simpleExceptionPattern.FindStringSubmatch(text); m != nil {
		info.ExceptionType = m[1]
	}

	for _, m := range framePattern.FindAllStringSubmatch(text, -1) {
		line, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		info.Frames = append(info.Frames, Frame{
			ClassName:  m[1],
			MethodName: m[2],
			FileName:   m[3],
			LineNumber: line,
		})
	}

	return info
}
