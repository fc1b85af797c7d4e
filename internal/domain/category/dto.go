// internal/domain/category/dto.go
package category

type CreateCategoryData struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateCategoryData carries the id in the body.
type UpdateCategoryData struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}
