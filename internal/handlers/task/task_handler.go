// internal/handlers/task/task_handler.go
package task

import (
	"net/http"
	"strconv"

	"taskdesk/internal/domain/task"
	"taskdesk/internal/handlers"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"
	taskUsecase "taskdesk/internal/service/task"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *taskUsecase.TaskService
}

func NewTaskHandler(taskService *taskUsecase.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks renders the tasks page, optionally narrowed by ?status=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter := c.DefaultQuery("status", "all")
	status, err := task.ParseFilter(filter)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid status filter", err)
		return
	}

	tasks, err := h.taskService.GetTasks(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	tasks = task.FilterByStatus(tasks, status)

	response.Success(c, http.StatusOK, "tasks", gin.H{
		"page":   navigation.RouteTasks,
		"status": filter,
		"tasks":  tasks,
		"total":  len(tasks),
	})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "task", t)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req task.CreateTaskData
	if !handlers.BindJSON(c, &req) {
		return
	}

	t, err := h.taskService.CreateTask(c.Request.Context(), &req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "task created", t)
}

// UpdateTask takes the id from the path; any id in the body is ignored.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req task.UpdateTaskData
	if !handlers.BindJSON(c, &req) {
		return
	}
	req.ID = id

	if !req.Status.Valid() {
		response.ValidationError(c, "Status is invalid", map[string][]string{
			"Status": {"Status is invalid"},
		})
		return
	}

	t, err := h.taskService.UpdateTask(c.Request.Context(), &req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "task updated", t)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "task deleted", nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid task id", nil)
		return 0, false
	}
	return id, true
}
