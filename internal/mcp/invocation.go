package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"lineage/internal/oauth"
)

// Defaults substituted when an envelope field is absent or malformed.
const (
	DefaultMethod   = "unknown"
	DefaultToolName = "unknown"
)

// DefaultID is the call-id sentinel used when a request carries no usable
// id. Integer and string forms are disambiguated against its stringified
// form.
const DefaultID int64 = -1

// ErrParse marks a transport-shape failure: the request body was present
// but not parseable as JSON.
var ErrParse = errors.New("malformed JSON body")

// Protocol identifies the transport a call originated from.
type Protocol int

const (
	ProtocolREST Protocol = iota
	ProtocolJSONRPC
)

// Invocation is the request-scoped, transport-neutral shape of a tool
// call. Both the REST and the JSON-RPC path reduce to it, so handlers
// never need to know which transport originated the call.
type Invocation struct {
	// Tool is the requested tool name.
	Tool string

	// Arguments maps argument names to their values.
	Arguments map[string]any

	// ID is the JSON-RPC call id (int64 or string; DefaultID when absent).
	ID any

	// Method is the JSON-RPC method (DefaultMethod for REST calls).
	Method string

	// ProtocolVersion is the version requested by initialize, if any.
	ProtocolVersion string

	// Origin is the transport the call arrived on.
	Origin Protocol

	// Scopes is the granted-scope set copied from the authenticated
	// token.
	Scopes []oauth.Scope
}

// StringArg returns the named argument coerced to a string, or def when
// absent. Query parameters arrive as strings; JSON-RPC arguments may be
// numbers or bools.
func (inv *Invocation) StringArg(name, def string) string {
	raw, ok := inv.Arguments[name]
	if !ok || raw == nil {
		return def
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// rpcRequest mirrors the inbound JSON-RPC envelope.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Name            string         `json:"name"`
	Arguments       map[string]any `json:"arguments"`
	ProtocolVersion string         `json:"protocolVersion"`
}

// NormalizeJSONRPC parses a JSON-RPC request body into an Invocation.
// A body that fails to parse yields ErrParse.
func NormalizeJSONRPC(body []byte) (*Invocation, error) {
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	method := req.Method
	if method == "" {
		method = DefaultMethod
	}
	tool := req.Params.Name
	if tool == "" {
		tool = DefaultToolName
	}
	args := req.Params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	return &Invocation{
		Tool:            tool,
		Arguments:       args,
		ID:              NormalizeID(req.ID),
		Method:          method,
		ProtocolVersion: req.Params.ProtocolVersion,
		Origin:          ProtocolJSONRPC,
	}, nil
}

// NormalizeREST builds an Invocation for the named tool from a REST
// request. GET passes the query parameters through as arguments. POST
// parses the JSON body and merges its fields as query-equivalent
// parameters; the call is treated as a GET downstream. A non-empty body
// that fails to parse yields ErrParse — it is not silently treated as
// empty.
func NormalizeREST(r *http.Request, tool string) (*Invocation, error) {
	args := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}

	if r.Method == http.MethodPost {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if len(body) > 0 {
			var fields map[string]any
			if err := json.Unmarshal(body, &fields); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrParse, err)
			}
			for key, value := range fields {
				args[key] = value
			}
		}
	}

	return &Invocation{
		Tool:      tool,
		Arguments: args,
		ID:        DefaultID,
		Method:    DefaultMethod,
		Origin:    ProtocolREST,
	}, nil
}

// NormalizeID reduces a decoded JSON id value to int64 or string. The
// string form wins only when it differs from the stringified sentinel;
// anything unusable becomes DefaultID.
func NormalizeID(raw any) any {
	switch v := raw.(type) {
	case string:
		if v != "" && v != strconv.FormatInt(DefaultID, 10) {
			return v
		}
		return DefaultID
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		return DefaultID
	default:
		return DefaultID
	}
}
