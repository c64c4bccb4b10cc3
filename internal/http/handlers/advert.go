package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talentpool/internal/app"
	"talentpool/internal/domain/advert"
	"talentpool/internal/http/response"
)

type AdvertHandler struct {
	adverts   *app.AdvertService
	paginator Paginator
}

func NewAdvertHandler(adverts *app.AdvertService, paginator Paginator) *AdvertHandler {
	if paginator.DefaultSize <= 0 {
		paginator.DefaultSize = 10
	}
	if paginator.MaxSize < paginator.DefaultSize {
		paginator.MaxSize = paginator.DefaultSize
	}
	return &AdvertHandler{adverts: adverts, paginator: paginator}
}

type advertCreateRequest struct {
	Title           string     `json:"title"`
	CompanyName     string     `json:"company_name"`
	EmploymentType  string     `json:"employment_type"`
	ExperienceLevel string     `json:"experience_level"`
	Description     string     `json:"description"`
	JobDescription  string     `json:"job_description"`
	Location        string     `json:"location"`
	PublishAt       *time.Time `json:"publish_at"`
}

type advertUpdateRequest struct {
	Title           *string      `json:"title"`
	CompanyName     *string      `json:"company_name"`
	EmploymentType  *string      `json:"employment_type"`
	ExperienceLevel *string      `json:"experience_level"`
	Description     *string      `json:"description"`
	JobDescription  *string      `json:"job_description"`
	Location        *string      `json:"location"`
	IsPublished     *bool        `json:"is_published"`
	IsScheduled     *bool        `json:"is_scheduled"`
	PublishAt       optionalTime `json:"publish_at"`
}

func (h *AdvertHandler) List(c *gin.Context) {
	page, err := h.paginator.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.adverts.List(c.Request.Context(), page.Size, page.offset())
	if err != nil {
		response.Error(c, err)
		return
	}
	body, err := h.paginator.respond(c, page, result.Total, result.Items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, body)
}

func (h *AdvertHandler) Create(c *gin.Context) {
	var req advertCreateRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	created, err := h.adverts.Create(c.Request.Context(), advert.Advert{
		Title:           req.Title,
		CompanyName:     req.CompanyName,
		EmploymentType:  advert.EmploymentType(req.EmploymentType),
		ExperienceLevel: advert.ExperienceLevel(req.ExperienceLevel),
		Description:     req.Description,
		JobDescription:  req.JobDescription,
		Location:        req.Location,
		PublishAt:       req.PublishAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created)
}

func (h *AdvertHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.adverts.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *AdvertHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req advertUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	patch := advert.Patch{
		Title:          req.Title,
		CompanyName:    req.CompanyName,
		Description:    req.Description,
		JobDescription: req.JobDescription,
		Location:       req.Location,
		IsPublished:    req.IsPublished,
		IsScheduled:    req.IsScheduled,
	}
	if req.EmploymentType != nil {
		value := advert.EmploymentType(*req.EmploymentType)
		patch.EmploymentType = &value
	}
	if req.ExperienceLevel != nil {
		value := advert.ExperienceLevel(*req.ExperienceLevel)
		patch.ExperienceLevel = &value
	}
	if req.PublishAt.Set {
		patch.PublishAt = req.PublishAt.Value
		patch.ClearPublishAt = req.PublishAt.Value == nil
	}
	updated, err := h.adverts.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

func (h *AdvertHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.adverts.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *AdvertHandler) Publish(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.adverts.Publish(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

func (h *AdvertHandler) Unpublish(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.adverts.Unpublish(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}
