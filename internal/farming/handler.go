package farming

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the farm routes. Callers mount it behind the auth
// gateway; every route additionally checks the role's actions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireAny(rbac.ActionManageFarms)).Post("/farms", h.createFarm)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.ActionViewFarms, rbac.ActionManageFarms))
		r.Get("/farms", h.listFarms)
		r.Get("/farms/{id}", h.getFarm)
	})

	r.With(h.rbac.RequireAny(rbac.ActionManageFields)).Post("/fields", h.createField)
	r.With(h.rbac.RequireAny(rbac.ActionViewFields, rbac.ActionManageFields)).Get("/farms/{id}/fields", h.listFields)

	r.With(h.rbac.RequireAny(rbac.ActionManageCrops)).Post("/crops", h.createCrop)
	r.With(h.rbac.RequireAny(rbac.ActionViewCrops, rbac.ActionManageCrops)).Get("/fields/{id}/crops", h.listCrops)

	r.With(h.rbac.RequireAny(rbac.ActionManageActivities)).Post("/activities", h.createActivity)
	r.With(h.rbac.RequireAny(rbac.ActionViewActivities, rbac.ActionUpdateActivities, rbac.ActionManageActivities)).
		Get("/fields/{id}/activities", h.listActivities)
	r.With(h.rbac.RequireAny(rbac.ActionUpdateActivities, rbac.ActionManageActivities)).
		Put("/activities/{id}", h.updateActivity)
}

func (h *Handler) createFarm(w http.ResponseWriter, r *http.Request) {
	var in CreateFarmInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	farm, err := h.service.CreateFarm(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create farm", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, farm)
}

func (h *Handler) listFarms(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	farms, total, err := h.service.ListFarms(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, r, "list farms", err)
		return
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"farms":      farms,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) getFarm(w http.ResponseWriter, r *http.Request) {
	farm, err := h.service.GetFarm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get farm", err)
		return
	}
	httpx.JSON(w, http.StatusOK, farm)
}

func (h *Handler) createField(w http.ResponseWriter, r *http.Request) {
	var in CreateFieldInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	field, err := h.service.CreateField(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create field", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, field)
}

func (h *Handler) listFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.service.ListFields(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "list fields", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"fields": fields})
}

func (h *Handler) createCrop(w http.ResponseWriter, r *http.Request) {
	var in CreateCropInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	crop, err := h.service.CreateCrop(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create crop", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, crop)
}

func (h *Handler) listCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.service.ListCrops(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "list crops", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"crops": crops})
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var in CreateActivityInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	activity, err := h.service.CreateActivity(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create activity", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, activity)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "list activities", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"activities": activities})
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	var in UpdateActivityInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	activity, err := h.service.UpdateActivityStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, "update activity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, activity)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
