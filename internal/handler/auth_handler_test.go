package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

type fakeAuthSrv struct {
	resp    *models.LoginResponse
	err     error
	lastReq models.LoginRequest
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAuthSrv{resp: &models.LoginResponse{
		AccessToken: "token-123",
		ExpiresIn:   3600,
		User:        models.UserInfo{Email: "admin@krmu.edu", Role: models.RoleAdmin},
	}}
	h := NewAuthHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin@krmu.edu","password":"admin"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@krmu.edu", service.lastReq.Email)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "token-123", envelope.Data["access_token"])
}

func TestAuthHandlerLoginBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAuthSrv{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "")}
	h := NewAuthHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin@krmu.edu","password":"wrong"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, envelope.Error["code"])
}
