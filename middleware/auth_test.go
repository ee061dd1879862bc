package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter(adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin", AdminAuthMiddleware(adminKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func perform(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	router := newProtectedRouter("secret")

	w := perform(router, map[string]string{"X-Admin-Key": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, map[string]string{"X-Admin-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthMiddlewareUnconfigured(t *testing.T) {
	router := newProtectedRouter("")
	w := perform(router, map[string]string{"X-Admin-Key": "anything"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
