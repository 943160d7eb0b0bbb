package web_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"advanced-form/internal/delivery/http/middleware"
	"advanced-form/internal/delivery/http/web"
	"advanced-form/internal/repository/memory"
	"advanced-form/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSession = "6f1b7c52-1d0a-4c1e-9a55-0b7f3f0e8d11"
	testCSRF    = "test-csrf-token"
)

type upload struct {
	bucket, key, contentType string
	size                     int
}

type recordingSink struct {
	mu      sync.Mutex
	uploads []upload
}

func (s *recordingSink) Upload(_ context.Context, bucket, key string, payload []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, upload{bucket: bucket, key: key, contentType: contentType, size: len(payload)})
	return nil
}

func setupRouter(sink *recordingSink) *gin.Engine {
	return setupLimitedRouter(sink, nil)
}

func setupLimitedRouter(sink *recordingSink, uploadLimit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.Use(middleware.Session(false), middleware.ErrorHandler())

	pages := r.Group("")
	pages.Use(middleware.CSRFMiddleware(false))
	uc := usecase.NewFormUsecase(nil, sink, "avatars", memory.NewResultRepository())
	web.NewPageHandler(pages, uc, uploadLimit)
	return r
}

func withCookies(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSession})
	req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookieName, Value: testCSRF})
	return req
}

func postForm(r *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	values.Set(middleware.CSRFTokenFieldName, testCSRF)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withCookies(req))
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, path, nil)))
	return w
}

func TestIndexListsForms(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := get(r, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	for _, v := range []string{"1", "2", "3"} {
		assert.Contains(t, w.Body.String(), `href="/forms/`+v+`"`)
	}
}

func TestShowRendersEmptyForm(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := get(r, "/forms/2")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="csrf_token" value="`+testCSRF+`"`)
	assert.Contains(t, body, `name="name"`)
	assert.NotContains(t, body, `data-key=`)
	assert.NotContains(t, body, `class="errorMessage"`)
	assert.NotContains(t, body, `enctype="multipart/form-data"`)
}

func TestShowUnknownVersion(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := get(r, "/forms/9")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddActionAppendsRowWithoutValidating(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := postForm(r, "/forms/2", url.Values{
		"action":            {web.ActionAdd},
		"techs.0.id":        {"row-a"},
		"techs.0.title":     {"Go"},
		"techs.0.knowledge": {"70"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-key="row-a"`)
	assert.Contains(t, body, `name="techs.1.id"`)
	assert.Contains(t, body, `value="Go"`)
	assert.NotContains(t, body, `class="errorMessage"`)
}

func TestSubmitInvalidRendersFieldErrors(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := postForm(r, "/forms/2", url.Values{
		"name":     {"   "},
		"email":    {"not-an-email"},
		"password": {"12345"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Nome é obrigatório")
	assert.Contains(t, body, "Formato de email inválido")
	assert.Contains(t, body, "A senha deve conter no mínimo 6 caracteres")
	assert.Contains(t, body, "Adicione pelo menos uma tecnologia")
	assert.Contains(t, body, `value="not-an-email"`)
}

func TestSubmitValidShowsResultAndKeepsIt(t *testing.T) {
	r := setupRouter(&recordingSink{})

	w := postForm(r, "/forms/1", url.Values{
		"name":     {"ada   lovelace"},
		"email":    {"ada@example.com"},
		"password": {"analytical"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	w = get(r, "/forms/1")
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	w = get(r, "/forms/2")
	assert.NotContains(t, w.Body.String(), "Ada Lovelace")
}

func TestSubmitWithoutCSRFTokenIsRejected(t *testing.T) {
	r := setupRouter(&recordingSink{})

	req := httptest.NewRequest(http.MethodPost, "/forms/1", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withCookies(req))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitAvatarFormUploadsFile(t *testing.T) {
	sink := &recordingSink{}
	r := setupRouter(sink)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 3))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		middleware.CSRFTokenFieldName: testCSRF,
		"name":                        "alan turing",
		"email":                       "alan@example.com",
		"password":                    "enigma",
		"techs.0.id":                  "row-a",
		"techs.0.title":               "Maths",
		"techs.0.knowledge":           "100",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/forms/3", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withCookies(req))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me.png")
	require.Len(t, sink.uploads, 1)
	assert.Equal(t, upload{bucket: "avatars", key: "me.png", contentType: "image/png", size: img.Len()}, sink.uploads[0])
}

func TestSubmitAvatarFormRequiresFile(t *testing.T) {
	sink := &recordingSink{}
	r := setupRouter(sink)

	w := postForm(r, "/forms/3", url.Values{
		"name":              {"alan turing"},
		"email":             {"alan@example.com"},
		"password":          {"enigma"},
		"techs.0.id":        {"row-a"},
		"techs.0.title":     {"Maths"},
		"techs.0.knowledge": {"100"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "O avatar é obrigatório")
	assert.Empty(t, sink.uploads)
}

func TestUploadLimitSkipsAddRowAction(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.UploadRateLimitConfig(1, time.Minute))
	defer limiter.Close()
	r := setupLimitedRouter(&recordingSink{}, limiter.Handler())

	for i := 0; i < 3; i++ {
		w := postForm(r, "/forms/3", url.Values{"action": {web.ActionAdd}})
		require.Equal(t, http.StatusOK, w.Code, "add #%d", i+1)
	}

	submit := url.Values{"name": {"alan"}, "email": {"alan@example.com"}, "password": {"enigma"}}
	w := postForm(r, "/forms/3", submit)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postForm(r, "/forms/3", url.Values{"name": {"alan"}, "email": {"alan@example.com"}, "password": {"enigma"}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Tente novamente em")

	w = postForm(r, "/forms/1", url.Values{"name": {"alan"}, "email": {"alan@example.com"}, "password": {"enigma"}})
	assert.Equal(t, http.StatusOK, w.Code, "other versions are not limited")
}
