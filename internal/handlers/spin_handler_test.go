package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/services"
)

// stubSpinService returns a fixed error from every operation
type stubSpinService struct {
	err error
}

func (s *stubSpinService) GetStatus(ctx context.Context, tenantID, userID string) (*models.StatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.StatusResponse{AttemptsLeft: 1}, nil
}

func (s *stubSpinService) Spin(ctx context.Context, tenantID string, req *models.SpinRequest) (*models.SpinResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.SpinResponse{Prize: "sticker", SpinID: "abc", AttemptsLeft: 0}, nil
}

func (s *stubSpinService) SubmitLead(ctx context.Context, tenantID string, req *models.LeadRequest) error {
	return s.err
}

func (s *stubSpinService) SpinHistory(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error) {
	return nil, s.err
}

var _ services.SpinService = (*stubSpinService)(nil)

func performSpin(t *testing.T, svc services.SpinService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewSpinHandler(svc)
	router.POST("/spin", handler.Spin)

	req := httptest.NewRequest(http.MethodPost, "/spin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSpinErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"quota exceeded", services.ErrQuotaExceeded, http.StatusConflict},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
		{"success", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performSpin(t, &stubSpinService{err: tc.err}, `{"userId":"alice"}`)
			if w.Code != tc.want {
				t.Errorf("expected status %d, got %d (body %s)", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestSpinRejectsMalformedBody(t *testing.T) {
	w := performSpin(t, &stubSpinService{}, `{"userId":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestSpinRequiresUserIDField(t *testing.T) {
	w := performSpin(t, &stubSpinService{}, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when userId is missing, got %d", w.Code)
	}
}
