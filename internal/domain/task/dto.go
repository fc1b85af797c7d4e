// internal/domain/task/dto.go
package task

type CreateTaskData struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId" binding:"required"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// UpdateTaskData carries the id in the body; the backend route has none.
type UpdateTaskData struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	CategoryID  int64  `json:"categoryId" binding:"required"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}
