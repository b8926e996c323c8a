package handlers

import (
	"context"
	"net/http"

	"coffee_sync/internal/models"
	"coffee_sync/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSyncer struct {
	out   service.Outcome
	calls int
}

func (m *mockSyncer) Run(ctx context.Context) service.Outcome {
	m.calls++
	return m.out
}

type mockRunLog struct {
	runs      []models.SyncRun
	err       error
	lastLimit int
}

func (m *mockRunLog) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

// ---- Shared Test Helpers ----

const testSecret = "s"

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if s.Authenticator == nil {
		s.Authenticator = service.NewHMACAuth(testSecret, nil, nil)
	}
	return NewHandler(s, nil, nil).InitRoutes()
}

func signedHeader(path, clock, body string) http.Header {
	h := http.Header{}
	h.Set("Authorization", service.AuthorizationHeader(testSecret, path, clock, body))
	h.Set("Content-Type", "application/json")
	return h
}
