package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type resolverStub map[string]*models.Session

func (r resolverStub) Current(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := r[token]; ok {
		return s, nil
	}
	return nil, appErrors.ErrNotAuthenticated
}

func newGatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := resolverStub{"good": {ID: "s1", User: models.SessionUser{Name: "Admin"}}}
	r.GET("/private", RequireSession(resolver, "sid", "/console/login"), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).User.Name)
	})
	return r
}

func TestRequireSessionAcceptsBearerAndCookie(t *testing.T) {
	r := newGatedRouter()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "good", Expires: time.Now().Add(time.Hour)})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionRejects(t *testing.T) {
	r := newGatedRouter()

	for _, header := range []string{"", "Bearer bad", "Basic good"} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
		var body struct {
			Error *appErrors.Error       `json:"error"`
			Meta  map[string]interface{} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, appErrors.ErrNotAuthenticated.Code, body.Error.Code)
		assert.Equal(t, appErrors.ErrNotAuthenticated.Message, body.Error.Message)
		assert.Equal(t, "/console/login", body.Meta["login"])
	}
}

type observerStub struct {
	paths []string
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	o.paths = append(o.paths, method+" "+path)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/console/:tab", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/console/faculty", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, []string{"GET /console/:tab", "GET unmatched"}, obs.paths)
}
