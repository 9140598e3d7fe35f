package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// resultChunkSize is the read granularity for handler bodies, so large
// genealogical exports are copied in bounded chunks.
const resultChunkSize = 8192

// maxErrorMessageLen caps the message carried by internal-error
// envelopes to avoid leaking large stack traces.
const maxErrorMessageLen = 512

// serverError marks a handler outcome that must escalate to the
// dispatcher's internal-error boundary instead of being translated into
// a tool-level result.
type serverError struct {
	reason string
}

func (e *serverError) Error() string {
	return e.reason
}

// WriteToolResult translates a handler's HTTP-shaped result into the
// tools/call result envelope.
//
// A 500 status escalates as an error for the dispatcher's outer boundary.
// Any other non-2xx status yields a transport-success envelope whose
// result reports the failure in-band (isError:true) — callers that only
// check the RPC envelope for errors will miss tool-level failures; that
// is the MCP convention, not an oversight. 200/201 stream the body: valid
// JSON is emitted verbatim as structuredContent and escaped under
// content[0].text, anything else is wrapped as a text object.
func WriteToolResult(w http.ResponseWriter, id any, res *Result) error {
	if res.Status == http.StatusInternalServerError {
		return &serverError{reason: res.Reason}
	}

	if res.Status != http.StatusOK && res.Status != http.StatusCreated {
		payload := map[string]any{
			"jsonrpc": JSONRPCVersion,
			"id":      id,
			"result": map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": fmt.Sprintf("%d: %s", res.Status, res.Reason)},
				},
				"isError": true,
			},
		}
		writeJSON(w, http.StatusOK, payload)
		return nil
	}

	// Read the body in bounded chunks.
	var content []byte
	if res.Body != nil {
		buf := make([]byte, resultChunkSize)
		for {
			n, err := res.Body.Read(buf)
			content = append(content, buf[:n]...)
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read tool result body: %w", err)
			}
		}
	}

	escaped, err := json.Marshal(string(content))
	if err != nil {
		return fmt.Errorf("failed to escape tool result: %w", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	w.Write([]byte(`{"jsonrpc": "2.0","id": ` + encodeID(id) + `,"result": {"content": [{"type": "text", "text":`))
	w.Write(escaped)
	w.Write([]byte(`}],"structuredContent":`))
	if json.Valid(content) {
		w.Write(content)
	} else {
		w.Write([]byte(`{"type": "text", "text":`))
		w.Write(escaped)
		w.Write([]byte(`}`))
	}
	w.Write([]byte(`,"isError": false}}`))
	return nil
}

// encodeID renders a call id for hand-built JSON output.
func encodeID(id any) string {
	switch v := id.(type) {
	case string:
		quoted, _ := json.Marshal(v)
		return string(quoted)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return strconv.FormatInt(DefaultID, 10)
	}
}

// writeJSON writes a JSON payload with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteParseError rejects a request whose body was not parseable JSON.
// Unlike protocol-level errors this is a transport-shape failure, so the
// HTTP status is a real 400 alongside the parse-error envelope.
func WriteParseError(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"jsonrpc": JSONRPCVersion,
		"id":      DefaultID,
		"error": map[string]any{
			"code":    CodeParseError,
			"message": ErrorMessage(CodeParseError),
		},
	})
}

// WriteRPCError writes a JSON-RPC error envelope. The HTTP status is OK:
// JSON-RPC errors are transport-success, protocol-failure.
func WriteRPCError(w http.ResponseWriter, id any, code int, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"jsonrpc": JSONRPCVersion,
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// WriteInternalError writes the internal-error envelope for an uncaught
// failure, truncating the message to keep stack traces out of responses.
func WriteInternalError(w http.ResponseWriter, id any, reason string) {
	message := fmt.Sprintf("%d: %s", http.StatusInternalServerError, reason)
	if len(message) > maxErrorMessageLen {
		message = message[:maxErrorMessageLen]
	}
	WriteRPCError(w, id, CodeInternalError, message)
}
