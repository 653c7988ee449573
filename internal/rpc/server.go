// Package rpc implements the line-delimited request dispatcher: one JSON
// request per line in, exactly one JSON response per line out, processed
// strictly in arrival order.
package rpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"kindred/internal/gedcom"
	"kindred/internal/store"
)

// Persister receives the full store state after every successful
// mutation, before the mutation's response is emitted.
type Persister interface {
	Save(data *gedcom.Data) error
}

// Server routes decoded requests to the record store. It holds no state
// beyond the store handle and the optional persister, so dispatch is a
// pure function of (store state, request).
type Server struct {
	store   *store.Store
	persist Persister
	logger  *log.Logger
}

// NewServer returns a dispatcher over the given store. persist may be nil
// to disable persistence; logger may be nil to disable logging.
func NewServer(st *store.Store, persist Persister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{store: st, persist: persist, logger: logger}
}

// Serve reads newline-delimited requests from r and writes one response
// line per request to w, sequentially. Blank lines are skipped. It
// returns when r is exhausted or w fails; a bad request never terminates
// the loop.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, s.HandleLine(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// HandleLine decodes one raw message unit and returns the encoded reply.
func (s *Server) HandleLine(line string) string {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.logger.Warn("failed to decode request", "err", err)
		return encode(errorResponse(recoverID(line), CodeParseError, err.Error()))
	}
	return encode(s.Handle(req))
}

// Handle routes one decoded request and returns a Response or
// ErrorResponse value.
func (s *Server) Handle(req Request) any {
	s.logger.Debug("dispatching request", "id", req.ID, "method", req.Method)

	switch req.Method {
	case "ping":
		return successResponse(req.ID, struct{}{})
	case "get_individual":
		return s.handleGetIndividual(req)
	case "get_family":
		return s.handleGetFamily(req)
	case "list_individuals":
		return s.handleListIndividuals(req)
	case "list_families":
		return s.handleListFamilies(req)
	case "create_individual":
		return s.handleCreateIndividual(req)
	case "create_family":
		return s.handleCreateFamily(req)
	default:
		s.logger.Warn("method not found", "method", req.Method)
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

type getParams struct {
	ID *string `json:"id"`
}

type eventParams struct {
	Date  string `json:"date"`
	Place string `json:"place"`
}

type createIndividualParams struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Birth *eventParams `json:"birth"`
	Death *eventParams `json:"death"`
}

type createFamilyParams struct {
	ID        string   `json:"id"`
	HusbandID string   `json:"husband_id"`
	WifeID    string   `json:"wife_id"`
	Children  []string `json:"children"`
}

func (s *Server) handleGetIndividual(req Request) any {
	id, errResp := s.requireID(req)
	if errResp != nil {
		return *errResp
	}
	individual, err := s.store.GetIndividual(id)
	if err != nil {
		return storeError(req.ID, err)
	}
	return successResponse(req.ID, individual)
}

func (s *Server) handleGetFamily(req Request) any {
	id, errResp := s.requireID(req)
	if errResp != nil {
		return *errResp
	}
	family, err := s.store.GetFamily(id)
	if err != nil {
		return storeError(req.ID, err)
	}
	return successResponse(req.ID, family)
}

func (s *Server) handleListIndividuals(req Request) any {
	if s.store == nil {
		return storeUnavailable(req.ID)
	}
	return successResponse(req.ID, s.store.ListIndividuals())
}

func (s *Server) handleListFamilies(req Request) any {
	if s.store == nil {
		return storeUnavailable(req.ID)
	}
	return successResponse(req.ID, s.store.ListFamilies())
}

func (s *Server) handleCreateIndividual(req Request) any {
	var params createIndividualParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if s.store == nil {
		return storeUnavailable(req.ID)
	}

	candidate := gedcom.Individual{
		ID:    params.ID,
		Name:  params.Name,
		Birth: eventFromParams(params.Birth),
		Death: eventFromParams(params.Death),
	}
	created, err := s.store.CreateIndividual(candidate)
	if err != nil {
		return storeError(req.ID, err)
	}
	if errResp := s.saveAfterMutation(req.ID); errResp != nil {
		return *errResp
	}
	return successResponse(req.ID, created)
}

func (s *Server) handleCreateFamily(req Request) any {
	var params createFamilyParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if s.store == nil {
		return storeUnavailable(req.ID)
	}

	candidate := gedcom.Family{
		ID:        params.ID,
		HusbandID: params.HusbandID,
		WifeID:    params.WifeID,
		Children:  params.Children,
	}
	created, err := s.store.CreateFamily(candidate)
	if err != nil {
		return storeError(req.ID, err)
	}
	if errResp := s.saveAfterMutation(req.ID); errResp != nil {
		return *errResp
	}
	return successResponse(req.ID, created)
}

// saveAfterMutation persists the full state synchronously. The in-memory
// mutation already succeeded; a failed save is reported as a server error
// so the client knows durability may not hold for it.
func (s *Server) saveAfterMutation(reqID string) *ErrorResponse {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.Save(s.store.Export()); err != nil {
		s.logger.Error("failed to persist state", "err", err)
		resp := errorResponse(reqID, CodeServerError, fmt.Sprintf("failed to persist state: %v", err))
		return &resp
	}
	return nil
}

// requireID validates params before checking store availability, so a
// malformed request reports the same error whether or not the store came up.
func (s *Server) requireID(req Request) (string, *ErrorResponse) {
	var params getParams
	if err := decodeParams(req.Params, &params); err != nil {
		resp := errorResponse(req.ID, CodeInvalidParams, err.Error())
		return "", &resp
	}
	if params.ID == nil {
		resp := errorResponse(req.ID, CodeInvalidParams, "missing required param: id")
		return "", &resp
	}
	if s.store == nil {
		resp := storeUnavailable(req.ID)
		return "", &resp
	}
	return *params.ID, nil
}

func decodeParams(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}
	return nil
}

func eventFromParams(params *eventParams) *gedcom.Event {
	if params == nil || (params.Date == "" && params.Place == "") {
		return nil
	}
	return &gedcom.Event{Date: params.Date, Place: params.Place}
}

// storeError maps a record store failure onto the wire error table.
// Every kind has a fixed code; nothing is coerced.
func storeError(reqID string, err error) ErrorResponse {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errorResponse(reqID, CodeNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		return errorResponse(reqID, CodeConflict, err.Error())
	case errors.Is(err, store.ErrInvalidInput):
		return errorResponse(reqID, CodeInvalidParams, err.Error())
	default:
		return errorResponse(reqID, CodeServerError, err.Error())
	}
}

func storeUnavailable(reqID string) ErrorResponse {
	return errorResponse(reqID, CodeServerError, "record store unavailable")
}

// recoverID pulls the request id out of a line that failed full decoding,
// so even a parse error can be correlated when the id itself survived.
func recoverID(line string) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return ""
	}
	return probe.ID
}

func encode(message any) string {
	raw, err := json.Marshal(message)
	if err != nil {
		// Responses are plain structs; this cannot happen in practice.
		return `{"type":"error","error":{"code":-32000,"message":"failed to encode response"}}`
	}
	return string(raw)
}
