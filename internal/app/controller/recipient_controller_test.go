package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecipientRouter(env *testEnv) *gin.Engine {
	ctrl := NewRecipientController(env.recipients)
	router := gin.New()
	router.GET("/recipients", ctrl.List)
	router.POST("/recipients", ctrl.Create)
	router.POST("/recipients/activate", ctrl.Activate)
	router.POST("/recipients/deactivate", ctrl.Deactivate)
	router.PUT("/recipients/:id", ctrl.Update)
	router.DELETE("/recipients/:id", ctrl.Delete)
	return router
}

func TestRecipientController_Create(t *testing.T) {
	env := setupEnv(t)
	router := setupRecipientRouter(env)

	w := doJSON(router, "POST", "/recipients", map[string]interface{}{"email": "team@example.com", "name": "영업팀"})
	require.Equal(t, http.StatusCreated, w.Code)
	recipient := decode(t, w)["recipient"].(map[string]interface{})
	assert.Equal(t, "team@example.com", recipient["email"])
	assert.Equal(t, true, recipient["is_active"])

	w = doJSON(router, "POST", "/recipients", map[string]interface{}{"email": "team@example.com", "name": "중복"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.RecipientEmailExists)

	w = doJSON(router, "POST", "/recipients", map[string]interface{}{"email": "nope", "name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var verr apperrors.ValidationError
	require.NoError(t, decodeInto(w, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "name")
}

func TestRecipientController_ListAndStatus(t *testing.T) {
	env := setupEnv(t)
	router := setupRecipientRouter(env)
	a := env.addRecipient(t, "a@example.com", true)
	b := env.addRecipient(t, "b@example.com", true)
	env.addRecipient(t, "c@example.com", false)

	w := doJSON(router, "POST", "/recipients/deactivate", map[string]interface{}{"ids": []uint{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["updated"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/recipients?active=false", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["count"])

	w = doJSON(router, "POST", "/recipients/activate", map[string]interface{}{"ids": []uint{b.ID}})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/recipients?active=true", nil))
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, "b@example.com", resp["recipients"].([]interface{})[0].(map[string]interface{})["email"])

	w = doJSON(router, "POST", "/recipients/activate", map[string]interface{}{"ids": []uint{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/recipients?active=sometimes", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipientController_UpdateDelete(t *testing.T) {
	env := setupEnv(t)
	router := setupRecipientRouter(env)
	a := env.addRecipient(t, "a@example.com", true)
	path := "/recipients/" + jsonID(a.ID)

	w := doJSON(router, "PUT", path, map[string]interface{}{"email": "a2@example.com", "name": "A", "is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	recipient := decode(t, w)["recipient"].(map[string]interface{})
	assert.Equal(t, "a2@example.com", recipient["email"])
	assert.Equal(t, false, recipient["is_active"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", path, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.RecipientNotFound)

	w = doJSON(router, "PUT", "/recipients/999", map[string]interface{}{"email": "z@example.com", "name": "Z"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
