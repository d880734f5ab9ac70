package http

import (
	"net/http"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

// EventHandler handles event, task and dashboard API requests
type EventHandler struct {
	eventUC     usecase.EventUseCase
	taskUC      usecase.TaskUseCase
	dashboardUC usecase.DashboardUseCase
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventUC usecase.EventUseCase, taskUC usecase.TaskUseCase, dashboardUC usecase.DashboardUseCase) *EventHandler {
	return &EventHandler{
		eventUC:     eventUC,
		taskUC:      taskUC,
		dashboardUC: dashboardUC,
	}
}

type eventRequest struct {
	BasicInfo struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Type        string  `json:"type"`
		Category    *string `json:"category"`
	} `json:"basicInfo"`
	Schedule struct {
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
		Timezone  string  `json:"timezone"`
	} `json:"schedule"`
	Attendees struct {
		ExpectedCount *int `json:"expectedCount"`
		Capacity      *int `json:"capacity"`
	} `json:"attendees"`
	Budget struct {
		TotalBudget *float64 `json:"totalBudget"`
		Currency    string   `json:"currency"`
	} `json:"budget"`
	Status     *string `json:"status"`
	Visibility *string `json:"visibility"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (req *eventRequest) toCreate() *model.CreateEventRequest {
	return &model.CreateEventRequest{
		Title:             deref(req.BasicInfo.Title),
		Description:       deref(req.BasicInfo.Description),
		Type:              req.BasicInfo.Type,
		Category:          deref(req.BasicInfo.Category),
		StartDate:         deref(req.Schedule.StartDate),
		EndDate:           deref(req.Schedule.EndDate),
		Timezone:          req.Schedule.Timezone,
		ExpectedAttendees: req.Attendees.ExpectedCount,
		Capacity:          req.Attendees.Capacity,
		TotalBudget:       req.Budget.TotalBudget,
		Currency:          req.Budget.Currency,
		Visibility:        deref(req.Visibility),
	}
}

func (req *eventRequest) toUpdate() *model.UpdateEventRequest {
	return &model.UpdateEventRequest{
		Title:       req.BasicInfo.Title,
		Description: req.BasicInfo.Description,
		Category:    req.BasicInfo.Category,
		StartDate:   req.Schedule.StartDate,
		EndDate:     req.Schedule.EndDate,
		TotalBudget: req.Budget.TotalBudget,
		Status:      req.Status,
		Visibility:  req.Visibility,
	}
}

type taskRequest struct {
	Title    *string `json:"title"`
	DueDate  *string `json:"dueDate"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
}

func eventID(r *http.Request) types.EventID {
	return types.EventID(chi.URLParam(r, "eventID"))
}

// HandleList lists the caller's events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := &model.EventFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	page, err := h.eventUC.ListEvents(ctx, authFrom(ctx).UserID, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, map[string]any{
		"events":     mapSlice(page.Items, toEventJSON),
		"pagination": toPagination(page),
	})
}

// HandleCreate creates an event owned by the caller
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.eventUC.CreateEvent(ctx, authFrom(ctx).UserID, req.toCreate())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toEventJSON(event))
}

// HandleGet returns one of the caller's events
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	event, err := h.eventUC.GetEvent(ctx, authFrom(ctx).UserID, eventID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toEventJSON(event))
}

// HandleUpdate applies changes to one of the caller's events
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.eventUC.UpdateEvent(ctx, authFrom(ctx).UserID, eventID(r), req.toUpdate())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toEventJSON(event))
}

// HandleDelete removes one of the caller's events
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.eventUC.DeleteEvent(ctx, authFrom(ctx).UserID, eventID(r)); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(ctx, w, "Event deleted successfully")
}

// HandleListTasks lists the tasks of one of the caller's events
func (h *EventHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.taskUC.ListTasks(ctx, authFrom(ctx).UserID, eventID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"tasks": mapSlice(tasks, toTaskJSON)})
}

// HandleCreateTask adds a task to one of the caller's events
func (h *EventHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	task, err := h.taskUC.CreateTask(ctx, authFrom(ctx).UserID, eventID(r), &model.CreateTaskRequest{
		Title:    deref(req.Title),
		DueDate:  deref(req.DueDate),
		Priority: deref(req.Priority),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toTaskJSON(task))
}

// HandleUpdateTask changes a task of one of the caller's events
func (h *EventHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	taskID := types.TaskID(chi.URLParam(r, "taskID"))
	task, err := h.taskUC.UpdateTask(ctx, authFrom(ctx).UserID, taskID, &model.UpdateTaskRequest{
		Title:    req.Title,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Status:   req.Status,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toTaskJSON(task))
}

// HandleDeleteTask removes a task of one of the caller's events
func (h *EventHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID := types.TaskID(chi.URLParam(r, "taskID"))
	if err := h.taskUC.DeleteTask(ctx, authFrom(ctx).UserID, taskID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(ctx, w, "Task deleted successfully")
}

// HandleDashboard returns the caller's dashboard summary
func (h *EventHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.dashboardUC.GetDashboard(ctx, authFrom(ctx).UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, view)
}
