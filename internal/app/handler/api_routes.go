package handler

import (
	"backend/internal/app/middleware"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// REST API маршруты
	api := router.Group("/api")

	// ============ Аукционы - просмотр публичный, управление по ролям ============
	auctions := api.Group("/auctions")
	{
		// Публичные эндпоинты (без авторизации)
		auctions.GET("", h.GetAuctions)               // GET список с фильтрацией
		auctions.GET("/:id", h.GetAuction)            // GET одна запись
		auctions.GET("/:id/status", h.GetAuctionStatus) // GET сохранённый и расчётный статус
		auctions.GET("/:id/rankings", h.GetRankings)  // GET таблица лидеров
		auctions.GET("/:id/documents", h.GetAuctionDocuments)

		// Организаторы создают и настраивают аукционы
		auctions.POST("", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.CreateAuction)
		auctions.PUT("/:id", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.UpdateAuction)
		auctions.POST("/:id/invitations", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.InviteBidder)
		auctions.GET("/:id/invitations", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.GetInvitations)
		auctions.DELETE("/:id/invitations/:bidder_id", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.RemoveInvitation)
		auctions.POST("/:id/documents", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.UploadAuctionDocument)
		auctions.DELETE("/:id/documents/:doc_id", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.DeleteAuctionDocument)

		// Только для модераторов (утверждение)
		auctions.PUT("/:id/approve", authMiddleware.WithAuthCheck(role.Moderator), h.ApproveAuction)
		auctions.PUT("/:id/reject", authMiddleware.WithAuthCheck(role.Moderator), h.RejectAuction)

		// Поставщики участвуют в торгах
		auctions.POST("/:id/bids", authMiddleware.WithAuthCheck(role.Bidder), h.PlaceBid)
		auctions.GET("/:id/rank", authMiddleware.WithAuthCheck(role.Bidder), h.GetRank)
		auctions.GET("/:id/standings", authMiddleware.WithAuthCheck(role.Bidder, role.Organizer, role.Moderator), h.GetStandings)

		// Итоги подводят модераторы
		auctions.GET("/:id/results", authMiddleware.WithAuthCheck(role.Bidder, role.Organizer, role.Moderator), h.GetAuctionResults)
		auctions.POST("/:id/shortlist", authMiddleware.WithAuthCheck(role.Moderator), h.ShortlistAuction)
		auctions.PUT("/:id/award/:bidder_id", authMiddleware.WithAuthCheck(role.Moderator), h.AwardBidder)
		auctions.PUT("/:id/not-award/:bidder_id", authMiddleware.WithAuthCheck(role.Moderator), h.NotAwardBidder)
		auctions.PUT("/:id/disqualify/:bidder_id", authMiddleware.WithAuthCheck(role.Moderator), h.DisqualifyBidder)
		auctions.PUT("/:id/cancel", authMiddleware.WithAuthCheck(role.Organizer, role.Moderator), h.CancelAuction)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser) // POST регистрация
		auth.POST("/login", h.AuthHandler.LoginUser)       // POST аутентификация JWT

		// Защищенные эндпоинты
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Bidder, role.Organizer, role.Moderator), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(role.Bidder, role.Organizer, role.Moderator), h.AuthHandler.UpdateUserProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Bidder, role.Organizer, role.Moderator), h.AuthHandler.LogoutUser)
	}

	// Live-канал торгов: статусы и таблица лидеров в реальном времени
	router.GET("/ws/auctions/:id", h.AuctionWebSocket)

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// AuctionWebSocket подключает клиента к live-каналу аукциона
// @Summary Live-канал аукциона
// @Description Websocket с событиями смены статуса и обновлениями таблицы лидеров
// @Tags Live
// @Param id path int true "ID аукциона"
// @Router /ws/auctions/{id} [get]
func (h *APIHandler) AuctionWebSocket(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}
	h.Hub.HandleConnection(c.Writer, c.Request, c.Param("id"))
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
