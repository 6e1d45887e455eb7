package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for stacktrace.Parse:
// - Extracts exception type and message from the header line
// - Falls back to type-only match when the header has no message
// - Parses N well-formed frames in original top-to-bottom order
// - Frames[0] is the throw site
// - Skips lines without the parenthesized file:line suffix
// - Zero frames is a valid, non-error outcome

const npeTrace = `java.lang.NullPointerException: Cannot invoke "String.trim()" because "input" is null
	at com.example.parser.JsonParser.parse(JsonParser.java:42)
	at com.example.api.DataController.processJson(DataController.java:78)
	at com.example.api.DataController.handleRequest(DataController.java:31)`

func TestParse_ExceptionTypeAndMessage(t *testing.T) {
	t.Parallel()

	info := Parse(npeTrace)

	assert.Equal(t, "java.lang.NullPointerException", info.ExceptionType)
	assert.Equal(t, `Cannot invoke "String.trim()" because "input" is null`, info.Message)
}

func TestParse_FramesInOrder(t *testing.T) {
	t.Parallel()

	info := Parse(npeTrace)

	require.Len(t, info.Frames, 3)

	assert.Equal(t, Frame{
		ClassName:  "com.example.parser.JsonParser",
		MethodName: "parse",
		FileName:   "JsonParser.java",
		LineNumber: 42,
	}, info.Frames[0], "frames[0] must be the throw site")

	assert.Equal(t, "processJson", info.Frames[1].MethodName)
	assert.Equal(t, 78, info.Frames[1].LineNumber)
	assert.Equal(t, "handleRequest", info.Frames[2].MethodName)
	assert.Equal(t, 31, info.Frames[2].LineNumber)
}

func TestParse_TypeOnlyHeader(t *testing.T) {
	t.Parallel()

	info := Parse("java.io.IOException\n\tat com.example.Reader.read(Reader.java:10)")

	assert.Equal(t, "java.io.IOException", info.ExceptionType)
	assert.Empty(t, info.Message)
	require.Len(t, info.Frames, 1)
}

func TestParse_SkipsMalformedFrameLines(t *testing.T) {
	t.Parallel()

	trace := `java.lang.IllegalStateException: boom
	at com.example.Service.run(Service.java:5)
	at com.example.Service.lambda$run$0(Unknown Source)
	at java.base/java.lang.Thread.run(Thread.java:833)`

	info := Parse(trace)

	// The "Unknown Source" line has no file:line suffix and is dropped.
	require.Len(t, info.Frames, 2)
	assert.Equal(t, "com.example.Service", info.Frames[0].ClassName)
	assert.Equal(t, "Thread.java", info.Frames[1].FileName)
}

func TestParse_NoFrames(t *testing.T) {
	t.Parallel()

	info := Parse("something went wrong but this is not a java trace")

	assert.Empty(t, info.ExceptionType)
	assert.False(t, info.HasFrames())
	assert.NotNil(t, info.Frames)
}

func TestParse_ErrorAndThrowableSuffixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		wantType string
	}{
		{"error suffix", "java.lang.OutOfMemoryError: Java heap space", "java.lang.OutOfMemoryError"},
		{"throwable suffix", "java.lang.Throwable: wrapped", "java.lang.Throwable"},
		{"custom exception", "com.example.InvalidOrderException: order 42", "com.example.InvalidOrderException"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := Parse(tt.header)
			assert.Equal(t, tt.wantType, info.ExceptionType)
		})
	}
}
