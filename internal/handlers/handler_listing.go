package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/dto"
	"github.com/nakamart/nakamart_backend/internal/middleware"
)

// listingHandler handles HTTP requests related to listings.
type listingHandler struct {
	listingService portssvc.ListingSvcFacade
}

// newListingHandler creates a new listingHandler.
func newListingHandler(listingService portssvc.ListingSvcFacade) *listingHandler {
	return &listingHandler{listingService: listingService}
}

// registerListingRoutes sets up the routes for listing management.
func registerListingRoutes(rg *gin.RouterGroup, listingService portssvc.ListingSvcFacade) {
	h := newListingHandler(listingService)

	listings := rg.Group("/listings")
	{
		listings.POST("", h.createListing)
		listings.GET("", h.listFeed)
		listings.GET("/:listingID", h.getListing)
	}
}

// createListing godoc
// @Summary Post a new listing
// @Description Creates a new ACTIVE listing owned by the authenticated account.
// @Tags listings
// @Accept json
// @Produce json
// @Param listing body dto.CreateListingRequest true "Listing data"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings [post]
func (h *listingHandler) createListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createListing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	sellerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), req, sellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create listing", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

// listFeed godoc
// @Summary Browse the feed
// @Description Retrieves a page of ACTIVE listings of one type, newest first.
// @Tags listings
// @Produce json
// @Param type query string false "Listing type (SELL or WANTED)" default(SELL)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListFeedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings [get]
func (h *listingHandler) listFeed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListFeedParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	listings, nextToken, err := h.listingService.ListFeed(c.Request.Context(), params.Type, params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list feed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list feed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFeedResponse(listings, nextToken))
}

// getListing godoc
// @Summary Get a listing
// @Description Retrieves a listing by ID.
// @Tags listings
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} dto.ListingResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{listingID} [get]
func (h *listingHandler) getListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	listing, err := h.listingService.GetListingByID(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Listing not found"})
			return
		}
		logger.Error("Failed to get listing", slog.String("listing_id", listingID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve listing"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}
