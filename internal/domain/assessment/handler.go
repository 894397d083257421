package assessment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/internal/platform/auth"
	"github.com/biomax/biomax/pkg/pagination"
)

// EvaluationMetrics counts evaluation runs by category and outcome. The
// telemetry provider satisfies it; a nil recorder disables counting.
type EvaluationMetrics interface {
	RecordEvaluation(category string, ok bool)
}

type Handler struct {
	svc     *Service
	metrics EvaluationMetrics
}

func NewHandler(svc *Service, metrics ...EvaluationMetrics) *Handler {
	h := &Handler{svc: svc}
	if len(metrics) > 0 {
		h.metrics = metrics[0]
	}
	return h
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/categories", h.ListCategories)
	api.GET("/formulas", h.ListFormulas)
	api.GET("/formulas/:key", h.GetFormula)
	api.POST("/evaluations", h.Evaluate)
	api.POST("/profiles", h.CreateProfile)
	api.GET("/profiles", h.ListProfiles)
	api.GET("/profiles/:id", h.GetProfile)
	api.PUT("/profiles/:id", h.UpdateProfile)
	api.GET("/assessments", h.ListAssessments)
	api.GET("/assessments/:id", h.GetAssessment)

	// Destructive endpoints - admin only
	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/profiles/:id", h.DeleteProfile)
	adminGroup.DELETE("/assessments/:id", h.DeleteAssessment)
}

// -- Catalog Handlers --

// CategoryInfo is the list entry returned by GET /categories.
type CategoryInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Formulas    int    `json:"formulas"`
}

func (h *Handler) ListCategories(c echo.Context) error {
	cats := h.svc.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, cat := range cats {
		fs, _ := h.svc.Formulas(string(cat))
		out = append(out, CategoryInfo{
			ID:          string(cat),
			Description: cat.Description(),
			Formulas:    len(fs),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListFormulas(c echo.Context) error {
	items, err := h.svc.Formulas(c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetFormula(c echo.Context) error {
	f, err := h.svc.Formula(c.Param("key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "formula not found")
	}
	return c.JSON(http.StatusOK, f)
}

// -- Evaluation Handlers --

func (h *Handler) Evaluate(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.Evaluate(c.Request().Context(), &req)
	if err != nil {
		h.recordEvaluation(evaluationLabel(req.Category), false)
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.recordEvaluation(resp.Category, true)
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) recordEvaluation(category string, ok bool) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordEvaluation(category, ok)
}

// evaluationLabel collapses arbitrary request categories to a bounded label
// set so hostile inputs cannot inflate metric cardinality.
func evaluationLabel(category string) string {
	if category == "" || category == formula.SelectorAll {
		return formula.SelectorAll
	}
	if _, err := formula.ParseCategory(category); err != nil {
		return "invalid"
	}
	return category
}

// -- Input Profile Handlers --

func (h *Handler) CreateProfile(c echo.Context) error {
	var p InputProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProfile(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProfiles(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p InputProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProfile(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteProfile(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Assessment Handlers --

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	pg := pagination.FromContext(c)
	if profileID := c.QueryParam("profile_id"); profileID != "" {
		pid, err := uuid.Parse(profileID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid profile_id")
		}
		items, total, err := h.svc.ListAssessmentsByProfile(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListAssessments(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAssessment(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
