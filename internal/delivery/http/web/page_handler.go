package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"advanced-form/internal/delivery/http/middleware"
	"advanced-form/internal/domain"
	"advanced-form/internal/form"
	"advanced-form/pkg/apperror"
	"advanced-form/pkg/validation"

	"github.com/gin-gonic/gin"
)

// ActionAdd is the action value of the "add tech" button.
const ActionAdd = middleware.ActionAddTech

var descriptions = map[form.Version]string{
	form.VersionProfile: "nome, e-mail e senha",
	form.VersionTechs:   "com lista dinâmica de tecnologias",
	form.VersionAvatar:  "com upload de avatar",
}

type PageHandler struct {
	formUC domain.FormUsecase
}

type techRow struct {
	Index     int
	ID        string
	Title     form.FieldBinding
	Knowledge form.FieldBinding
}

type formPage struct {
	Title     string
	Version   form.Version
	Form      *form.Controller
	Techs     []techRow
	CSRFToken string
	Result    string
}

// NewPageHandler registers the HTML routes on group. uploadLimit guards the
// avatar form submissions.
func NewPageHandler(group *gin.RouterGroup, formUC domain.FormUsecase, uploadLimit gin.HandlerFunc) {
	h := &PageHandler{formUC: formUC}

	group.GET("/", h.Index)
	group.GET("/forms/:version", h.Show)
	group.POST("/forms/:version", middleware.AvatarUploadOnly(uploadLimit), h.Post)
}

func (h *PageHandler) Index(c *gin.Context) {
	type entry struct {
		Version     form.Version
		Description string
	}
	forms := make([]entry, 0, len(form.Versions))
	for _, v := range form.Versions {
		forms = append(forms, entry{Version: v, Description: descriptions[v]})
	}
	c.HTML(http.StatusOK, "index.tmpl", gin.H{"Title": "Advanced Form", "Forms": forms})
}

func (h *PageHandler) Show(c *gin.Context) {
	version, err := form.ParseVersion(c.Param("version"))
	if err != nil {
		c.Error(apperror.NotFound(err.Error()))
		return
	}
	h.render(c, http.StatusOK, h.formUC.NewController(version))
}

// Post handles both the add-row action and the submit action.
func (h *PageHandler) Post(c *gin.Context) {
	version, err := form.ParseVersion(c.Param("version"))
	if err != nil {
		c.Error(apperror.NotFound(err.Error()))
		return
	}

	ctrl := h.formUC.NewController(version)
	if err := bindPostedForm(c, ctrl); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if c.PostForm("action") == ActionAdd && version.HasTechs() {
		ctrl.AppendTech()
		h.render(c, http.StatusOK, ctrl)
		return
	}

	_, err = h.formUC.Submit(c.Request.Context(), middleware.SessionID(c), ctrl)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.render(c, http.StatusUnprocessableEntity, ctrl)
	case err != nil:
		c.Error(apperror.Internal(err))
	default:
		h.render(c, http.StatusOK, ctrl)
	}
}

func (h *PageHandler) render(c *gin.Context, status int, ctrl *form.Controller) {
	result, err := h.formUC.LastResult(c.Request.Context(), middleware.SessionID(c), ctrl.Version())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	page := formPage{
		Title:     fmt.Sprintf("Advanced Form - versão %d", ctrl.Version()),
		Version:   ctrl.Version(),
		Form:      ctrl,
		CSRFToken: middleware.CSRFToken(c),
		Result:    result,
	}
	for i, entry := range ctrl.Techs() {
		page.Techs = append(page.Techs, techRow{
			Index:     i,
			ID:        entry.ID,
			Title:     ctrl.BindField(fmt.Sprintf("techs.%d.title", i)),
			Knowledge: ctrl.BindField(fmt.Sprintf("techs.%d.knowledge", i)),
		})
	}
	c.HTML(status, "form.tmpl", page)
}

// bindPostedForm copies the posted fields into ctrl. Tech rows are read in
// index order until the first missing row.
func bindPostedForm(c *gin.Context, ctrl *form.Controller) error {
	for _, path := range []string{"name", "email", "password"} {
		if err := ctrl.Set(path, c.PostForm(path)); err != nil {
			return err
		}
	}

	if ctrl.Version().HasTechs() {
		for i := 0; ; i++ {
			prefix := fmt.Sprintf("techs.%d.", i)
			id, ok := c.GetPostForm(prefix + "id")
			if !ok {
				break
			}
			ctrl.RestoreTech(form.TechEntry{
				ID:        id,
				Title:     c.PostForm(prefix + "title"),
				Knowledge: c.PostForm(prefix + "knowledge"),
			})
		}
	}

	if ctrl.Version().HasAvatar() {
		avatar, err := readAvatar(c)
		if err != nil {
			return err
		}
		ctrl.SetAvatar(avatar)
	}
	return nil
}

// readAvatar loads the posted avatar. Reading stops one byte past the size
// limit; the declared size is kept so the size rule still sees it.
func readAvatar(c *gin.Context) (*form.Avatar, error) {
	header, err := c.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if header.Filename == "" {
		return nil, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, form.MaxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	return form.NewAvatar(header.Filename, header.Size, content), nil
}
