// Package soliscloudtest provides an in-memory SolisCloud server for tests of
// code built on the soliscloud client.
package soliscloudtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
)

type ControlRequest struct {
	InverterID string
	InverterSn string
	Value      string
}

// Server answers the list, atRead and control endpoints from the records it
// holds. Records are raw JSON objects so tests can send any field shape.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	stations  []map[string]any
	inverters []map[string]any
	epms      []map[string]any
	schedules map[string]string
	failures  map[string]int
	rejects   map[string]string
	controls  []ControlRequest
	hits      map[string]int
}

func NewServer() *Server {
	s := &Server{
		schedules: make(map[string]string),
		failures:  make(map[string]int),
		rejects:   make(map[string]string),
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) AddStation(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = append(s.stations, record)
}

func (s *Server) AddInverter(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inverters = append(s.inverters, record)
}

func (s *Server) AddEPM(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epms = append(s.epms, record)
}

// SetSchedule sets the value atRead returns for the inverter.
func (s *Server) SetSchedule(sn, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[sn] = value
}

func (s *Server) Schedule(sn string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules[sn]
}

// Fail makes every request to uri answer with status.
func (s *Server) Fail(uri string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[uri] = status
}

// Reject makes uri answer 200 with success=false and msg.
func (s *Server) Reject(uri, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejects[uri] = msg
}

func (s *Server) Controls() []ControlRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ControlRequest(nil), s.controls...)
}

func (s *Server) Hits(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[uri]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits[r.URL.Path]++

	if !strings.HasPrefix(r.Header.Get(soliscloud.HeaderAuthorization), "API ") {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "Forbidden"})
		return
	}

	if status, ok := s.failures[r.URL.Path]; ok {
		writeJSON(w, status, map[string]any{"error": http.StatusText(status)})
		return
	}

	if msg, ok := s.rejects[r.URL.Path]; ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "code": "1", "msg": msg})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	switch r.URL.Path {
	case soliscloud.URIStationList:
		s.writePage(w, body, s.stations, "stationStatusVo")
	case soliscloud.URIInverterList:
		s.writePage(w, body, s.inverters, "inverterStatusVo")
	case soliscloud.URIEPMList:
		s.writePage(w, body, s.epms, "epmStatusVo")
	case soliscloud.URIAtRead:
		sn, _ := body["inverterSn"].(string)
		writeSuccess(w, map[string]any{"msg": s.schedules[sn]})
	case soliscloud.URIControl:
		control := ControlRequest{}
		control.InverterID, _ = body["inverterId"].(string)
		control.InverterSn, _ = body["inverterSn"].(string)
		control.Value, _ = body["value"].(string)
		s.controls = append(s.controls, control)
		s.schedules[control.InverterSn] = control.Value
		writeSuccess(w, []map[string]any{{"code": "0", "msg": "set ok"}})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not Found"})
	}
}

func (s *Server) writePage(w http.ResponseWriter, body map[string]any, records []map[string]any, statusKey string) {
	pageNo := intValue(body["pageNo"], 1)
	pageSize := intValue(body["pageSize"], soliscloud.DefaultPageSize)

	pages := (len(records) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	start := min((pageNo-1)*pageSize, len(records))
	end := min(start+pageSize, len(records))

	status := map[string]any{"all": len(records)}
	normal, offline, fault := 0, 0, 0
	for _, record := range records {
		switch intValue(record["state"], 0) {
		case soliscloud.InverterStateOnline:
			normal++
		case soliscloud.InverterStateOffline:
			offline++
		case soliscloud.InverterStateAlarm:
			fault++
		}
	}
	status["normal"] = normal
	status["offline"] = offline
	status["fault"] = fault

	writeSuccess(w, map[string]any{
		"page": map[string]any{
			"current": pageNo,
			"pages":   pages,
			"size":    pageSize,
			"total":   len(records),
			"records": records[start:end],
		},
		statusKey: status,
	})
}

func intValue(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return fallback
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "code": "0", "msg": "success", "data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
