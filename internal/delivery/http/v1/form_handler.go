package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"advanced-form/internal/delivery/http/middleware"
	"advanced-form/internal/delivery/http/response"
	"advanced-form/internal/domain"
	"advanced-form/internal/form"
	"advanced-form/pkg/apperror"
	"advanced-form/pkg/validation"

	"github.com/gin-gonic/gin"
)

// FormRequest is the JSON body of a submission.
type FormRequest struct {
	Name     string        `json:"name" example:"john doe"`
	Email    string        `json:"email" example:"john@example.com"`
	Password string        `json:"password" example:"secret1"`
	Avatar   *AvatarUpload `json:"avatar,omitempty"`
	Techs    []TechRequest `json:"techs,omitempty"`
}

// AvatarUpload carries the file as base64 in Content.
type AvatarUpload struct {
	FileName string `json:"fileName" example:"me.png"`
	Content  []byte `json:"content" swaggertype:"string" format:"base64"`
}

type TechRequest struct {
	ID        string      `json:"id,omitempty"`
	Title     string      `json:"title" example:"Go"`
	Knowledge json.Number `json:"knowledge" swaggertype:"integer" example:"80"`
}

// SubmissionResponse is returned on a successful submission.
type SubmissionResponse struct {
	Values form.FormValues `json:"values"`
	Result string          `json:"result"`
}

type FormHandler struct {
	formUC domain.FormUsecase
}

// NewFormHandler registers the submission routes. uploadLimit guards avatar
// form submissions and may be shared with the page routes.
func NewFormHandler(group *gin.RouterGroup, formUC domain.FormUsecase, uploadLimit gin.HandlerFunc) {
	h := &FormHandler{formUC: formUC}

	group.POST("/forms/:version/submissions", middleware.AvatarUploadOnly(uploadLimit), h.Submit)
	group.GET("/forms/:version/submissions/last", h.Last)
}

// Submit godoc
// @Summary      Submit a form
// @Description  Validates the values for a form version. On success the avatar (version 3) is uploaded and the serialized result stored for the session.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        version  path      int          true  "Form version (1-3)"
// @Param        form     body      FormRequest  true  "Form values"
// @Success      200      {object}  response.Response{data=SubmissionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response{error=map[string]string}
// @Failure      429      {object}  response.Response
// @Router       /forms/{version}/submissions [post]
func (h *FormHandler) Submit(c *gin.Context) {
	version, err := form.ParseVersion(c.Param("version"))
	if err != nil {
		c.Error(apperror.NotFound(err.Error()))
		return
	}

	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	ctrl := h.formUC.NewController(version)
	if err := req.apply(ctrl); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.formUC.Submit(c.Request.Context(), middleware.SessionID(c), ctrl)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.Error(apperror.Unprocessable("Validation failed", verrs.Messages(), err))
		return
	}
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	values, err := form.Parse(result)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Form submitted", SubmissionResponse{Values: values, Result: result})
}

// Last godoc
// @Summary      Last submission
// @Description  Returns the last successful serialized result of this session for a form version.
// @Tags         forms
// @Produce      json
// @Param        version  path      int  true  "Form version (1-3)"
// @Success      200      {object}  response.Response{data=string}
// @Failure      404      {object}  response.Response
// @Router       /forms/{version}/submissions/last [get]
func (h *FormHandler) Last(c *gin.Context) {
	version, err := form.ParseVersion(c.Param("version"))
	if err != nil {
		c.Error(apperror.NotFound(err.Error()))
		return
	}
	result, err := h.formUC.LastResult(c.Request.Context(), middleware.SessionID(c), version)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if result == "" {
		c.Error(apperror.NotFound("No submission yet"))
		return
	}
	response.Success(c, http.StatusOK, "Last submission", result)
}

func (r *FormRequest) apply(ctrl *form.Controller) error {
	for path, value := range map[string]string{"name": r.Name, "email": r.Email, "password": r.Password} {
		if err := ctrl.Set(path, value); err != nil {
			return err
		}
	}
	if ctrl.Version().HasTechs() {
		for _, t := range r.Techs {
			ctrl.RestoreTech(form.TechEntry{ID: t.ID, Title: t.Title, Knowledge: t.Knowledge.String()})
		}
	}
	if ctrl.Version().HasAvatar() && r.Avatar != nil {
		ctrl.SetAvatar(form.NewAvatar(r.Avatar.FileName, int64(len(r.Avatar.Content)), r.Avatar.Content))
	}
	return nil
}
