package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentpool/internal/app"
	"talentpool/internal/common"
	"talentpool/internal/domain/application"
	"talentpool/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
}

func NewApplicationHandler(applications *app.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

type applicationRequest struct {
	JobAdvert         string  `json:"job_advert"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	LinkedInProfile   string  `json:"linkedin_profile"`
	GithubProfile     string  `json:"github_profile"`
	Website           *string `json:"website"`
	YearsOfExperience string  `json:"years_of_experience"`
	CoverLetter       *string `json:"cover_letter"`
}

// Submit accepts an application from anyone. The advert named in the body
// takes precedence over the one in the path.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	pathAdvert, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req applicationRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	advertID := pathAdvert
	if raw := strings.TrimSpace(req.JobAdvert); raw != "" {
		advertID, err = common.ParseUUID(raw)
		if err != nil {
			response.Error(c, common.NewValidationError("invalid job application", map[string]string{"job_advert": "must be a valid UUID"}))
			return
		}
	}
	created, err := h.applications.Submit(c.Request.Context(), application.Application{
		AdvertID:          advertID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		LinkedInProfile:   strings.TrimSpace(req.LinkedInProfile),
		GithubProfile:     strings.TrimSpace(req.GithubProfile),
		Website:           req.Website,
		YearsOfExperience: application.YearsOfExperience(req.YearsOfExperience),
		CoverLetter:       req.CoverLetter,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListByAdvert(c *gin.Context) {
	advertID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.applications.ListByAdvert(c.Request.Context(), advertID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.applications.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.applications.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
