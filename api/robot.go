package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	internalstrings "github.com/amonks/taskpad/internal/strings"
	"github.com/amonks/taskpad/task"
)

// Robot commands.
const (
	CommandAddTask   = "add task"
	CommandListTasks = "list tasks"
)

type robotRequest struct {
	Command string        `json:"command"`
	Data    *robotAddData `json:"data,omitempty"`
}

type robotAddData struct {
	Name     string `json:"name"`
	Note     string `json:"note,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

type robotAddResponse struct {
	Message string    `json:"message"`
	Task    task.Task `json:"task"`
}

type robotListResponse struct {
	Tasks []task.Task `json:"tasks"`
}

func (s *Server) handleRobot(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		s.robotList(w, r)
		return
	}

	var payload robotRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	switch strings.ToLower(strings.TrimSpace(payload.Command)) {
	case "":
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("command not provided"))
	case CommandAddTask:
		s.robotAdd(w, r, payload.Data)
	case CommandListTasks:
		s.robotList(w, r)
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown command %q", payload.Command))
	}
}

func (s *Server) robotAdd(w http.ResponseWriter, r *http.Request, data *robotAddData) {
	if data == nil || internalstrings.IsBlank(data.Name) {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("task name is required"))
		return
	}

	opts := task.AddOptions{Note: data.Note}
	if !internalstrings.IsBlank(data.Deadline) {
		deadline, err := time.Parse(time.RFC3339, strings.TrimSpace(data.Deadline))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid deadline %q: want RFC 3339", data.Deadline))
			return
		}
		opts.Deadline = &deadline
	}

	added, err := s.store.Add(data.Name, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, task.ErrInvalid) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}
	s.logger.Info("task added via robot", "id", added.ID, "name", added.Name)
	writeJSON(w, http.StatusOK, robotAddResponse{Message: "Task added successfully", Task: *added})
}

func (s *Server) robotList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.List(task.ListFilter{})
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, robotListResponse{Tasks: tasks})
}
