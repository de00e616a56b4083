package server

import (
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/hub"
	"auction-house/internal/metrics"
	handler "auction-house/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. rec may be nil.
func SetupRouter(biddingService *bidding.BiddingService, h *hub.Hub, rec *metrics.Recorder) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(MetricsMiddleware(rec))

	biddingHandler := handler.NewBiddingHandler(biddingService)
	streamHandler := handler.NewStreamHandler(biddingService, h)

	users := router.Group("/users")
	{
		users.POST("", biddingHandler.RegisterUserHandler)
		users.DELETE("/:user_id", biddingHandler.RemoveUserHandler)
		users.GET("/:user_id/items", biddingHandler.GetItemsByUserHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.RecordBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("/:index/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:index/winning", biddingHandler.GetWinningBidHandler)
	}

	router.GET("/status", biddingHandler.StatusHandler)
	router.POST("/messages", biddingHandler.SendMessageHandler)
	router.GET("/results", biddingHandler.GetResultsHandler)
	router.GET("/ws", streamHandler.Stream)

	return router
}
