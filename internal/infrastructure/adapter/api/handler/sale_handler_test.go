package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/logger"
	mocks "github.com/amirhossein-jamali/flash-sale/mocks/port/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) NewID() string { return string(f) }

var saleStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func setupSaleRouter(uc usecase.PurchaseUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewSaleHandler(uc, logger.NewNoopLogger())

	r := gin.New()
	r.Use(middleware.Correlation(fixedID("corr-1")))
	r.GET("/current", h.GetCurrentSale)
	r.POST("/current/purchase", h.AttemptPurchase)
	r.GET("/current/purchase", h.CheckUserPurchase)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCurrentSale(t *testing.T) {
	uc := mocks.NewMockPurchaseUseCase(t)
	uc.On("GetCurrentSale", mock.Anything).Return(&entity.SaleView{
		ID:             "sale-1",
		ProductName:    "Keyboard",
		TotalStock:     100,
		RemainingStock: 42,
		StartTime:      saleStart,
		EndTime:        saleStart.Add(30 * time.Minute),
		Status:         entity.SaleStatusActive,
	}, nil)

	w := perform(setupSaleRouter(uc), http.MethodGet, "/current", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data dto.FlashSaleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sale-1", body.Data.ID)
	assert.Equal(t, int64(42), body.Data.RemainingStock)
	assert.Equal(t, "active", body.Data.Status)
	assert.Contains(t, w.Body.String(), `"startTime":"2025-06-01T10:00:00Z"`)
}

func TestGetCurrentSaleErrors(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"NotFound", errs.NewSaleNotFoundError(), http.StatusNotFound, "SALE_NOT_FOUND", errs.MsgSaleNotFound},
		{"Internal", errors.New("sql: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", errs.MsgInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := mocks.NewMockPurchaseUseCase(t)
			uc.On("GetCurrentSale", mock.Anything).Return(nil, tc.err)

			w := perform(setupSaleRouter(uc), http.MethodGet, "/current", "")

			assert.Equal(t, tc.wantStatus, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tc.wantStatus, body.Code)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.Equal(t, tc.wantMsg, body.Error.Message)
			assert.Equal(t, "corr-1", body.Error.CorrelationID)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestAttemptPurchase(t *testing.T) {
	uc := mocks.NewMockPurchaseUseCase(t)
	uc.On("AttemptPurchase", mock.Anything, " alice ").Return(&entity.PurchaseResult{
		PurchaseID:  "p-1",
		UserID:      "alice",
		ProductName: "Keyboard",
		Status:      entity.PurchaseStatusConfirmed,
		PurchasedAt: saleStart.Add(time.Minute),
	}, nil)

	w := perform(setupSaleRouter(uc), http.MethodPost, "/current/purchase", `{"userId":" alice "}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data dto.PurchaseResultResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "p-1", body.Data.PurchaseID)
	assert.Equal(t, "alice", body.Data.UserID)
	assert.Equal(t, "confirmed", body.Data.Status)
}

func TestAttemptPurchaseValidation(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"MalformedJSON", `{"userId":`, "Request body must be a JSON object."},
		{"MissingUserID", `{}`, "userId must not be empty."},
		{"NumericUserID", `{"userId":123}`, "userId must be a string."},
		{"ObjectUserID", `{"userId":{"id":"x"}}`, "userId must be a string."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := mocks.NewMockPurchaseUseCase(t)

			w := perform(setupSaleRouter(uc), http.MethodPost, "/current/purchase", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
			assert.Equal(t, tc.wantMsg, body.Error.Message)
			uc.AssertNotCalled(t, "AttemptPurchase", mock.Anything, mock.Anything)
		})
	}
}

func TestAttemptPurchaseRejections(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{"SoldOut", errs.NewSoldOutError(), "SOLD_OUT", errs.MsgSoldOut},
		{"AlreadyPurchased", errs.NewAlreadyPurchasedError(), "ALREADY_PURCHASED", errs.MsgAlreadyPurchased},
		{"NotStarted", errs.NewSaleNotActiveError(errs.BoundaryUpcoming), "SALE_NOT_ACTIVE", errs.MsgSaleNotStarted},
		{"Ended", errs.NewSaleNotActiveError(errs.BoundaryEnded), "SALE_NOT_ACTIVE", errs.MsgSaleEnded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := mocks.NewMockPurchaseUseCase(t)
			uc.On("AttemptPurchase", mock.Anything, "alice").Return(nil, tc.err)

			w := perform(setupSaleRouter(uc), http.MethodPost, "/current/purchase", `{"userId":"alice"}`)

			assert.Equal(t, http.StatusConflict, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.Equal(t, tc.wantMsg, body.Error.Message)
		})
	}
}

func TestAttemptPurchasePropagatesCorrelationID(t *testing.T) {
	uc := mocks.NewMockPurchaseUseCase(t)
	uc.On("AttemptPurchase", mock.MatchedBy(func(ctx context.Context) bool {
		return core.CorrelationIDFrom(ctx) == "corr-1"
	}), "alice").Return(nil, errs.NewSoldOutError())

	w := perform(setupSaleRouter(uc), http.MethodPost, "/current/purchase", `{"userId":"alice"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckUserPurchase(t *testing.T) {
	at := saleStart.Add(5 * time.Minute)

	t.Run("Purchased", func(t *testing.T) {
		uc := mocks.NewMockPurchaseUseCase(t)
		uc.On("CheckUserPurchase", mock.Anything, "alice").
			Return(&entity.UserPurchaseCheck{Purchased: true, PurchaseID: "p-1", PurchasedAt: &at}, nil)

		w := perform(setupSaleRouter(uc), http.MethodGet, "/current/purchase?userId=alice", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"purchased":true,"purchaseId":"p-1","purchasedAt":"2025-06-01T10:05:00Z"}}`, w.Body.String())
	})

	t.Run("NotPurchased", func(t *testing.T) {
		uc := mocks.NewMockPurchaseUseCase(t)
		uc.On("CheckUserPurchase", mock.Anything, "bob").Return(&entity.UserPurchaseCheck{}, nil)

		w := perform(setupSaleRouter(uc), http.MethodGet, "/current/purchase?userId=bob", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"purchased":false}}`, w.Body.String())
	})

	t.Run("MissingUserID", func(t *testing.T) {
		uc := mocks.NewMockPurchaseUseCase(t)
		uc.On("CheckUserPurchase", mock.Anything, "").Return(nil, errs.NewValidationError("userId must not be empty."))

		w := perform(setupSaleRouter(uc), http.MethodGet, "/current/purchase", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
