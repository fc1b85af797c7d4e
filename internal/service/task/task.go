// internal/service/task/task.go
package task

import (
	"context"
	"fmt"
	"net/http"

	"taskdesk/internal/domain/task"
	"taskdesk/internal/pkg/apiclient"
	"taskdesk/internal/pkg/querycache"

	"go.uber.org/zap"
)

const basePath = "/Task"

type TaskService struct {
	client *apiclient.Client
	cache  *querycache.Cache
	logger *zap.Logger
}

func NewTaskService(client *apiclient.Client, cache *querycache.Cache, logger *zap.Logger) *TaskService {
	return &TaskService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// GetTasks lists tasks, served from the query cache while it is fresh.
func (s *TaskService) GetTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := querycache.Fetch(ctx, s.cache, querycache.KeyTasks, func(ctx context.Context) ([]task.Task, error) {
		return apiclient.Data[[]task.Task](ctx, s.client, http.MethodGet, basePath, nil)
	})
	if err != nil {
		return nil, err
	}
	// callers get their own slice; the cached one stays intact
	return append([]task.Task(nil), tasks...), nil
}

// GetTask fetches one task, bypassing the cache.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	t, err := apiclient.Data[task.Task](ctx, s.client, http.MethodGet, itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask creates a task and invalidates the task list.
func (s *TaskService) CreateTask(ctx context.Context, req *task.CreateTaskData) (*task.Task, error) {
	t, err := apiclient.Data[task.Task](ctx, s.client, http.MethodPost, basePath, req)
	if err != nil {
		s.logger.Warn("failed to create task", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(querycache.KeyTasks)
	s.logger.Info("task created", zap.Int64("task_id", t.ID))
	return &t, nil
}

// UpdateTask replaces a task. The id travels in the body.
func (s *TaskService) UpdateTask(ctx context.Context, req *task.UpdateTaskData) (*task.Task, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("invalid task status %d", int(req.Status))
	}

	t, err := apiclient.Data[task.Task](ctx, s.client, http.MethodPut, basePath, req)
	if err != nil {
		s.logger.Warn("failed to update task", zap.Int64("task_id", req.ID), zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(querycache.KeyTasks)
	s.logger.Info("task updated", zap.Int64("task_id", req.ID))
	return &t, nil
}

// DeleteTask deletes a task and invalidates the task list.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, itemPath(id), nil); err != nil {
		s.logger.Warn("failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return err
	}

	s.cache.Invalidate(querycache.KeyTasks)
	s.logger.Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}
