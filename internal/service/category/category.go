// internal/service/category/category.go
package category

import (
	"context"
	"fmt"
	"net/http"

	"taskdesk/internal/domain/category"
	"taskdesk/internal/pkg/apiclient"
	"taskdesk/internal/pkg/querycache"

	"go.uber.org/zap"
)

const basePath = "/Category"

type CategoryService struct {
	client *apiclient.Client
	cache  *querycache.Cache
	logger *zap.Logger
}

func NewCategoryService(client *apiclient.Client, cache *querycache.Cache, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]category.Category, error) {
	cats, err := querycache.Fetch(ctx, s.cache, querycache.KeyCategories, func(ctx context.Context) ([]category.Category, error) {
		return apiclient.Data[[]category.Category](ctx, s.client, http.MethodGet, basePath, nil)
	})
	if err != nil {
		return nil, err
	}
	return append([]category.Category(nil), cats...), nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	c, err := apiclient.Data[category.Category](ctx, s.client, http.MethodGet, itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *category.CreateCategoryData) (*category.Category, error) {
	c, err := apiclient.Data[category.Category](ctx, s.client, http.MethodPost, basePath, req)
	if err != nil {
		s.logger.Warn("failed to create category", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(querycache.KeyCategories)
	s.logger.Info("category created", zap.Int64("category_id", c.ID))
	return &c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, req *category.UpdateCategoryData) (*category.Category, error) {
	c, err := apiclient.Data[category.Category](ctx, s.client, http.MethodPut, basePath, req)
	if err != nil {
		s.logger.Warn("failed to update category", zap.Int64("category_id", req.ID), zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(querycache.KeyCategories)
	s.logger.Info("category updated", zap.Int64("category_id", req.ID))
	return &c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, itemPath(id), nil); err != nil {
		s.logger.Warn("failed to delete category", zap.Int64("category_id", id), zap.Error(err))
		return err
	}

	s.cache.Invalidate(querycache.KeyCategories)
	s.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}

func itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}
