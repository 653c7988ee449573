package rpc

import "encoding/json"

// Wire error codes, fixed by the protocol contract.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
	CodeConflict       = -32001
	CodeNotFound       = -32004
)

// Request is one inbound message unit: a JSON object on a single line.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is a successful reply, correlated to its request by ID.
type Response struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Result any    `json:"result"`
}

// ErrorResponse is a failed reply. ID is omitted when it could not be
// recovered from the request.
type ErrorResponse struct {
	Type  string      `json:"type"`
	ID    string      `json:"id,omitempty"`
	Error ErrorObject `json:"error"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func successResponse(id string, result any) Response {
	return Response{Type: "response", ID: id, Result: result}
}

func errorResponse(id string, code int, message string) ErrorResponse {
	return ErrorResponse{
		Type:  "error",
		ID:    id,
		Error: ErrorObject{Code: code, Message: message},
	}
}
