package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
)

// listQuery is the query string of the public listing. Absent values take
// the service defaults.
type listQuery struct {
	Page         *int   `form:"page" binding:"omitempty,min=1"`
	Size         *int   `form:"size" binding:"omitempty,min=1,max=50"`
	CategoryID   *int   `form:"category_id"`
	DifficultyID *int   `form:"difficulty_id"`
	Search       string `form:"search" binding:"max=200"`
	SortBy       string `form:"sort_by" binding:"omitempty,oneof=title view_count created_at"`
	Order        string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func (q listQuery) params() service.ListParams {
	p := service.ListParams{
		CategoryID:   q.CategoryID,
		DifficultyID: q.DifficultyID,
		Search:       q.Search,
		SortBy:       q.SortBy,
		Order:        q.Order,
	}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.Size != nil {
		p.Size = *q.Size
	}
	return p
}

// @Summary      List algorithms
// @Description  Published algorithms, filtered (AND-combined), searched by title or concept summary, sorted and paginated.
// @Tags         algorithms
// @Produce      json
// @Param        page           query     int     false  "Page number (1-based)"  default(1)
// @Param        size           query     int     false  "Page size (max 50)"     default(12)
// @Param        category_id    query     int     false  "Category id"
// @Param        difficulty_id  query     int     false  "Difficulty level id"
// @Param        search         query     string  false  "Case-insensitive substring of title or concept summary"
// @Param        sort_by        query     string  false  "Sort key"   Enums(title, view_count, created_at)
// @Param        order          query     string  false  "Direction"  Enums(asc, desc)
// @Success      200            {object}  models.AlgorithmPage
// @Failure      400            {object}  map[string]string
// @Failure      500            {object}  map[string]string
// @Router       /api/v1/algorithms [get]
func (h *Handler) listAlgorithms(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidQueryPref + err.Error()})
		return
	}

	page, err := h.services.Algorithms.List(c.Request.Context(), q.params())
	if err != nil {
		h.respondError(c, err, "algorithm_list_failed")
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Get algorithm
// @Description  Full published record with code templates. Each successful read counts one view.
// @Description  Drafts answer 404 here; editors load them by id from GET /api/v1/admin/algorithms/{id}.
// @Tags         algorithms
// @Produce      json
// @Param        slug  path      string  true  "Algorithm slug"
// @Success      200   {object}  models.Algorithm
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/algorithms/{slug} [get]
func (h *Handler) getAlgorithm(c *gin.Context) {
	slug := c.Param("slug")
	a, err := h.services.Algorithms.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondError(c, err, "algorithm_get_failed", "slug", slug)
		return
	}
	h.opts.Metrics.RecordAlgorithmView()
	c.JSON(http.StatusOK, a)
}

// AlgorithmRequest is the payload for a new algorithm. New algorithms start unpublished.
type AlgorithmRequest struct {
	Title                 string          `json:"title" binding:"required" example:"Binary Search"`
	CategoryID            int             `json:"category_id" binding:"required,min=1"`
	DifficultyID          int             `json:"difficulty_id" binding:"required,min=1"`
	ConceptSummary        string          `json:"concept_summary" binding:"required"`
	CoreFormulas          json.RawMessage `json:"core_formulas" swaggertype:"array,object"`
	ThoughtProcess        *string         `json:"thought_process"`
	ApplicationConditions json.RawMessage `json:"application_conditions" swaggertype:"object"`
	TimeComplexity        string          `json:"time_complexity" binding:"required" example:"O(log n)"`
	SpaceComplexity       string          `json:"space_complexity" binding:"required" example:"O(1)"`
	ProblemTypes          json.RawMessage `json:"problem_types" swaggertype:"array,object"`
	CommonMistakes        *string         `json:"common_mistakes"`
}

// AlgorithmUpdateRequest is a partial update; omitted fields are kept.
type AlgorithmUpdateRequest struct {
	Title                 *string         `json:"title"`
	CategoryID            *int            `json:"category_id" binding:"omitempty,min=1"`
	DifficultyID          *int            `json:"difficulty_id" binding:"omitempty,min=1"`
	ConceptSummary        *string         `json:"concept_summary"`
	CoreFormulas          json.RawMessage `json:"core_formulas" swaggertype:"array,object"`
	ThoughtProcess        *string         `json:"thought_process"`
	ApplicationConditions json.RawMessage `json:"application_conditions" swaggertype:"object"`
	TimeComplexity        *string         `json:"time_complexity"`
	SpaceComplexity       *string         `json:"space_complexity"`
	ProblemTypes          json.RawMessage `json:"problem_types" swaggertype:"array,object"`
	CommonMistakes        *string         `json:"common_mistakes"`
	IsPublished           *bool           `json:"is_published"`
}

// TemplateRequest adds code in one language to an algorithm.
type TemplateRequest struct {
	LanguageID  int     `json:"language_id" binding:"required,min=1"`
	Code        string  `json:"code" binding:"required"`
	Explanation *string `json:"explanation"`
}

// @Summary      Create algorithm
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      AlgorithmRequest  true  "algorithm"
// @Success      201   {object}  models.Algorithm
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/admin/algorithms [post]
// @Security     BearerAuth
func (h *Handler) createAlgorithm(c *gin.Context) {
	var in AlgorithmRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	a, err := h.services.Algorithms.Create(c.Request.Context(), service.AlgorithmParams{
		Title:                 in.Title,
		CategoryID:            in.CategoryID,
		DifficultyID:          in.DifficultyID,
		ConceptSummary:        in.ConceptSummary,
		CoreFormulas:          in.CoreFormulas,
		ThoughtProcess:        in.ThoughtProcess,
		ApplicationConditions: in.ApplicationConditions,
		TimeComplexity:        in.TimeComplexity,
		SpaceComplexity:       in.SpaceComplexity,
		ProblemTypes:          in.ProblemTypes,
		CommonMistakes:        in.CommonMistakes,
	})
	if err != nil {
		h.respondError(c, err, "admin_create_algorithm_failed", "title", in.Title)
		return
	}

	h.log.Infow("admin_algorithm_created", "algorithm_id", a.ID, "slug", a.Slug, "by", currentUser(c).ID)
	c.JSON(http.StatusCreated, a)
}

// @Summary      Get algorithm by id
// @Description  Includes drafts. Does not count a view. This is how editors open an unpublished algorithm.
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Algorithm id"
// @Success      200  {object}  models.Algorithm
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/admin/algorithms/{id} [get]
// @Security     BearerAuth
func (h *Handler) getAlgorithmByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.services.Algorithms.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "admin_get_algorithm_failed", "algorithm_id", id)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Update algorithm
// @Description  Partial update. A new title regenerates the slug.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Algorithm id"
// @Param        body  body      AlgorithmUpdateRequest  true  "fields to change"
// @Success      200   {object}  models.Algorithm
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/admin/algorithms/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateAlgorithm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in AlgorithmUpdateRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	a, err := h.services.Algorithms.Update(c.Request.Context(), id, service.AlgorithmPatch{
		Title:                 in.Title,
		CategoryID:            in.CategoryID,
		DifficultyID:          in.DifficultyID,
		ConceptSummary:        in.ConceptSummary,
		CoreFormulas:          in.CoreFormulas,
		ThoughtProcess:        in.ThoughtProcess,
		ApplicationConditions: in.ApplicationConditions,
		TimeComplexity:        in.TimeComplexity,
		SpaceComplexity:       in.SpaceComplexity,
		ProblemTypes:          in.ProblemTypes,
		CommonMistakes:        in.CommonMistakes,
		IsPublished:           in.IsPublished,
	})
	if err != nil {
		h.respondError(c, err, "admin_update_algorithm_failed", "algorithm_id", id)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Delete algorithm
// @Description  Removes the algorithm and its code templates.
// @Tags         admin
// @Param        id   path  int  true  "Algorithm id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/admin/algorithms/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteAlgorithm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Algorithms.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "admin_delete_algorithm_failed", "algorithm_id", id)
		return
	}
	h.log.Infow("admin_algorithm_deleted", "algorithm_id", id, "by", currentUser(c).ID)
	c.Status(http.StatusNoContent)
}

// @Summary      Add code template
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Algorithm id"
// @Param        body  body      TemplateRequest  true  "template"
// @Success      201   {object}  models.CodeTemplate
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/admin/algorithms/{id}/templates [post]
// @Security     BearerAuth
func (h *Handler) addTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in TemplateRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	t, err := h.services.Algorithms.AddTemplate(c.Request.Context(), id, service.TemplateParams{
		LanguageID:  in.LanguageID,
		Code:        in.Code,
		Explanation: in.Explanation,
	})
	if err != nil {
		h.respondError(c, err, "admin_add_template_failed", "algorithm_id", id, "language_id", in.LanguageID)
		return
	}
	c.JSON(http.StatusCreated, t)
}
