package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/dto"
)

// --- Mock ExchangeService ---
type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) ExecuteTrade(ctx context.Context, listingID, buyerID string) (*domain.TradeReceipt, error) {
	args := m.Called(ctx, listingID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradeReceipt), args.Error(1)
}

type TradeHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockExchangeService
}

func (s *TradeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockService = new(MockExchangeService)
	s.router = gin.New()

	// Stand-in for the auth middleware: inject the caller identity directly.
	authed := s.router.Group("/api/v1", func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	registerTradeRoutes(authed, s.mockService)
}

func (s *TradeHandlerTestSuite) buy(listingID, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+listingID+"/buy", nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TradeHandlerTestSuite) TestBuyListing_Success() {
	receipt := &domain.TradeReceipt{
		ListingID:     "l1",
		ListingStatus: domain.ListingSold,
		BuyerID:       "buyer",
		SellerID:      "seller",
		Price:         50,
		LedgerEntryID: "e1",
		ExecutedAt:    time.Now().UTC(),
	}
	s.mockService.On("ExecuteTrade", mock.Anything, "l1", "buyer").Return(receipt, nil).Once()

	w := s.buy("l1", "buyer")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.TradeReceiptResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("l1", resp.ListingID)
	s.Equal(domain.ListingSold, resp.ListingStatus)
	s.Equal("buyer", resp.BuyerID)
	s.Equal("seller", resp.SellerID)
	s.Equal(int64(50), resp.Price)
	s.mockService.AssertExpectations(s.T())
}

func (s *TradeHandlerTestSuite) TestBuyListing_Unauthenticated() {
	w := s.buy("l1", "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.mockService.AssertNotCalled(s.T(), "ExecuteTrade")
}

func (s *TradeHandlerTestSuite) TestBuyListing_ErrorMapping() {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"already sold", apperrors.ErrAlreadySold, http.StatusConflict},
		{"self trade", apperrors.ErrSelfTrade, http.StatusForbidden},
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusPaymentRequired},
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"contention", apperrors.ErrTradeContention, http.StatusServiceUnavailable},
		{"store unavailable", apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"store contract", apperrors.ErrStoreContract, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockService.On("ExecuteTrade", mock.Anything, "l1", "buyer").Return(nil, tc.err).Once()

			w := s.buy("l1", "buyer")

			s.Equal(tc.code, w.Code)
			var resp ErrorResponse
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			s.NotEmpty(resp.Error)
		})
	}
	s.mockService.AssertExpectations(s.T())
}

func TestTradeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TradeHandlerTestSuite))
}
