package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
	"yieldvault/internal/uuid"
)

type mockInvestmentService struct {
	openFn func(userID, plan string, amountCents int64) (*models.Investment, error)
}

func (m *mockInvestmentService) OpenInvestment(userID, plan string, amountCents int64) (*models.Investment, error) {
	return m.openFn(userID, plan, amountCents)
}

func (m *mockInvestmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	resp := pagination.NewPageResponse([]models.Investment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockInvestmentService) GetInvestmentByID(userID, investmentID string) (*models.Investment, error) {
	return nil, apperrors.ErrInvestmentNotFound
}

type mockPlanService struct{}

func (m *mockPlanService) ListActivePlans() ([]models.Plan, error) { return nil, nil }
func (m *mockPlanService) ResolvePlan(s string) (*models.Plan, error) {
	return nil, apperrors.ErrPlanNotFound
}

func newInvestmentRouter(svc services.InvestmentServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInvestmentHandler(svc, &mockPlanService{})

	router := gin.New()
	authed := router.Group("/", func(c *gin.Context) {
		c.Set("userID", "test-user-id")
		c.Next()
	})
	authed.POST("/investments", handler.OpenInvestment)
	authed.GET("/investments/:id", handler.GetInvestmentByID)
	return router
}

func TestOpenInvestmentHandler_Created(t *testing.T) {
	svc := &mockInvestmentService{
		openFn: func(userID, plan string, amountCents int64) (*models.Investment, error) {
			if userID != "test-user-id" {
				t.Errorf("expected authenticated user ID, got %q", userID)
			}
			if plan != "premium" || amountCents != 100000 {
				t.Errorf("unexpected arguments: %s, %d", plan, amountCents)
			}
			return &models.Investment{AmountCents: amountCents, Status: models.InvestmentStatusActive}, nil
		},
	}
	router := newInvestmentRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/investments", strings.NewReader(`{"plan":"premium","amount_cents":100000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOpenInvestmentHandler_MapsServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr *apperrors.AppError
		wantStatus int
		wantCode   string
	}{
		{"insufficient balance", apperrors.ErrInsufficientBalance, http.StatusBadRequest, "INSUFFICIENT_BALANCE"},
		{"plan already used", apperrors.ErrPlanAlreadyUsed, http.StatusConflict, "PLAN_ALREADY_USED"},
		{"plan not found", apperrors.ErrPlanNotFound, http.StatusNotFound, "PLAN_NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockInvestmentService{
				openFn: func(string, string, int64) (*models.Investment, error) {
					return nil, tc.serviceErr
				},
			}
			router := newInvestmentRouter(svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/investments", strings.NewReader(`{"plan":"premium","amount_cents":100000}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body.Error.Code != tc.wantCode {
				t.Errorf("expected code %q, got %q", tc.wantCode, body.Error.Code)
			}
		})
	}
}

func TestOpenInvestmentHandler_RejectsBadPayload(t *testing.T) {
	router := newInvestmentRouter(&mockInvestmentService{
		openFn: func(string, string, int64) (*models.Investment, error) {
			t.Fatal("service must not be called for invalid payloads")
			return nil, nil
		},
	})

	for _, payload := range []string{`{}`, `{"plan":"premium"}`, `{"plan":"premium","amount_cents":-5}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/investments", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestGetInvestmentByIDHandler_ValidatesPathID(t *testing.T) {
	router := newInvestmentRouter(&mockInvestmentService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/investments/not-a-uuid", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/investments/"+uuid.New(), nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown investment, got %d", rec.Code)
	}
}
