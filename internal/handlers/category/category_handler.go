// internal/handlers/category/category_handler.go
package category

import (
	"net/http"
	"strconv"

	"taskdesk/internal/domain/category"
	"taskdesk/internal/handlers"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"
	categoryUsecase "taskdesk/internal/service/category"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *categoryUsecase.CategoryService
}

func NewCategoryHandler(categoryService *categoryUsecase.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cats, err := h.categoryService.GetCategories(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "categories", gin.H{
		"page":       navigation.RouteCategories,
		"categories": cats,
		"total":      len(cats),
	})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cat, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "category", cat)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req category.CreateCategoryData
	if !handlers.BindJSON(c, &req) {
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "category created", cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req category.UpdateCategoryData
	if !handlers.BindJSON(c, &req) {
		return
	}
	req.ID = id

	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), &req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "category updated", cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "category deleted", nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid category id", nil)
		return 0, false
	}
	return id, true
}
