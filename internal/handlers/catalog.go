package handlers

import (
	"net/http"

	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.services.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "category_list_failed")
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary      Get category
// @Tags         catalog
// @Produce      json
// @Param        slug  path      string  true  "Category slug"
// @Success      200   {object}  models.Category
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/categories/{slug} [get]
func (h *Handler) getCategory(c *gin.Context) {
	slug := c.Param("slug")
	cat, err := h.services.GetCategory(c.Request.Context(), slug)
	if err != nil {
		h.respondError(c, err, "category_get_failed", "slug", slug)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary      List difficulty levels
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   models.DifficultyLevel
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/difficulties [get]
func (h *Handler) listDifficulties(c *gin.Context) {
	levels, err := h.services.ListDifficulties(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "difficulty_list_failed")
		return
	}
	c.JSON(http.StatusOK, levels)
}

// @Summary      List programming languages
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   models.ProgrammingLanguage
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/languages [get]
func (h *Handler) listLanguages(c *gin.Context) {
	langs, err := h.services.ListLanguages(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "language_list_failed")
		return
	}
	c.JSON(http.StatusOK, langs)
}

// CategoryRequest is the payload for a new category.
type CategoryRequest struct {
	Name         string  `json:"name" binding:"required" example:"Graph"`
	Slug         string  `json:"slug" example:"graph"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
	ParentID     *int    `json:"parent_id" binding:"omitempty,min=1"`
	Color        string  `json:"color" example:"#0969da"`
}

// @Summary      Create category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      CategoryRequest  true  "category"
// @Success      201   {object}  models.Category
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/admin/categories [post]
// @Security     BearerAuth
func (h *Handler) createCategory(c *gin.Context) {
	var in CategoryRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	cat, err := h.services.CreateCategory(c.Request.Context(), service.CategoryParams{
		Name:         in.Name,
		Slug:         in.Slug,
		Description:  in.Description,
		DisplayOrder: in.DisplayOrder,
		ParentID:     in.ParentID,
		Color:        in.Color,
	})
	if err != nil {
		h.respondError(c, err, "admin_create_category_failed", "name", in.Name)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary      Delete category
// @Description  Deletes the category, its sub-categories, their algorithms and code templates.
// @Tags         admin
// @Param        id   path  int  true  "Category id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/admin/categories/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "admin_delete_category_failed", "category_id", id)
		return
	}
	h.log.Infow("admin_category_deleted", "category_id", id, "by", currentUser(c).ID)
	c.Status(http.StatusNoContent)
}
