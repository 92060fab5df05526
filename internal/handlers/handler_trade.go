package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/dto"
	"github.com/nakamart/nakamart_backend/internal/middleware"
)

// tradeHandler handles the purchase endpoint.
type tradeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

// newTradeHandler creates a new tradeHandler.
func newTradeHandler(exchangeService portssvc.ExchangeSvcFacade) *tradeHandler {
	return &tradeHandler{exchangeService: exchangeService}
}

// registerTradeRoutes sets up the purchase route.
func registerTradeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := newTradeHandler(exchangeService)

	// 30 purchases per minute per IP
	rate, _ := limiter.NewRateFromFormatted("30-M")
	buyLimiter := limiter.New(memory.NewStore(), rate)

	rg.POST("/listings/:listingID/buy", middleware.RateLimit(buyLimiter), h.buyListing)
}

// buyListing godoc
// @Summary Buy a listing
// @Description Atomically transfers the listing to the caller, moves the price
// @Description between the two wallets, and records one ledger entry. Exactly
// @Description one of any set of concurrent buyers wins.
// @Tags trades
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} dto.TradeReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{listingID}/buy [post]
func (h *tradeHandler) buyListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	buyerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.exchangeService.ExecuteTrade(c.Request.Context(), listingID, buyerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Listing or account not found"})
		case errors.Is(err, apperrors.ErrAlreadySold):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Listing is no longer available"})
		case errors.Is(err, apperrors.ErrSelfTrade):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You cannot buy your own listing"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "Insufficient balance for this purchase"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrTradeContention), errors.Is(err, apperrors.ErrStoreUnavailable):
			logger.Warn("Trade did not commit", slog.String("listing_id", listingID), slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "The marketplace is busy, please retry"})
		default:
			logger.Error("Trade failed", slog.String("listing_id", listingID), slog.String("buyer_id", buyerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to complete purchase"})
		}
		return
	}

	logger.Info("Trade committed",
		slog.String("listing_id", receipt.ListingID),
		slog.String("buyer_id", receipt.BuyerID),
		slog.String("seller_id", receipt.SellerID),
		slog.Int64("price", receipt.Price),
	)
	c.JSON(http.StatusOK, dto.ToTradeReceiptResponse(receipt))
}
