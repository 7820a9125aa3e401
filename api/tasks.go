package api

import (
	_ "embed"
	"net/http"
)

//go:embed sample-tasks.json
var sampleTasks []byte

// SampleTasks returns the fixed sample data served by GET /tasks.
func SampleTasks() []byte {
	return append([]byte(nil), sampleTasks...)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sampleTasks)
}
