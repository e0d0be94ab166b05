package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/app/auction"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/role"
)

func toAuctionResponse(a ds.Auction) dto.AuctionResponse {
	resp := dto.AuctionResponse{
		ID:              a.ID,
		Code:            a.Code,
		Title:           a.Title,
		Description:     a.Description,
		Status:          string(a.Status),
		Date:            a.Date,
		StartTime:       a.StartTime,
		DurationMinutes: a.DurationMinutes,
		CeilingPrice:    a.CeilingPrice,
		StepAmount:      a.StepAmount,
		Currency:        string(a.Currency),
		StatusReason:    a.StatusReason,
		CreatedAt:       a.CreatedAt,
	}
	if a.Creator.ID != 0 {
		resp.Creator = a.Creator.Login
	}
	return resp
}

// ============ ДОМЕН АУКЦИОНЫ ============

// GetAuctions получает список аукционов
// @Summary Список аукционов
// @Description Возвращает аукционы с фильтрацией по статусу и датам создания
// @Tags Auctions
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "Создан не раньше (RFC3339)"
// @Param date_to query string false "Создан не позже (RFC3339)"
// @Param mine query bool false "Только собственные аукционы"
// @Success 200 {object} dto.AuctionListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auctions [get]
func (h *APIHandler) GetAuctions(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !ds.ValidAuctionStatus(ds.AuctionStatus(status)) {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "неизвестный статус аукциона")
		return
	}

	var dateFrom, dateTo *time.Time
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "date_from должен быть в формате RFC3339")
			return
		}
		dateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "date_to должен быть в формате RFC3339")
			return
		}
		dateTo = &t
	}

	var creatorID *uint
	if c.Query("mine") == "true" {
		userID, _, err := h.getUserFromContext(c)
		if err == nil {
			creatorID = &userID
		}
	}

	auctions, err := h.Repository.GetAuctions(status, dateFrom, dateTo, creatorID)
	if err != nil {
		h.storeError(c, err, "Error getting auctions")
		return
	}

	resp := dto.AuctionListResponse{Total: len(auctions)}
	resp.Auctions = make([]dto.AuctionResponse, len(auctions))
	for i, a := range auctions {
		resp.Auctions[i] = toAuctionResponse(a)
	}
	c.JSON(http.StatusOK, resp)
}

// GetAuction получает один аукцион
// @Summary Карточка аукциона
// @Tags Auctions
// @Produce json
// @Param id path int true "ID аукциона"
// @Success 200 {object} dto.AuctionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id} [get]
func (h *APIHandler) GetAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.Repository.GetAuctionByID(id)
	if err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}
	c.JSON(http.StatusOK, toAuctionResponse(*a))
}

// CreateAuction создаёт аукцион в статусе pending
// @Summary Создание аукциона
// @Description Организатор создаёт аукцион; торги начнутся только после утверждения модератором
// @Tags Auctions
// @Accept json
// @Produce json
// @Param request body dto.CreateAuctionRequest true "Параметры аукциона"
// @Security BearerAuth
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions [post]
func (h *APIHandler) CreateAuction(c *gin.Context) {
	var request dto.CreateAuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	a := ds.Auction{
		Title:           request.Title,
		Description:     request.Description,
		Date:            request.Date,
		StartTime:       request.StartTime,
		DurationMinutes: request.DurationMinutes,
		CeilingPrice:    request.CeilingPrice,
		StepAmount:      request.StepAmount,
		Currency:        ds.Currency(request.Currency),
		CreatorID:       userID,
	}

	// расписание должно собираться в валидные моменты старта и конца
	if _, _, err := auction.StartEnd(a, h.Clock.Location()); err != nil {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "некорректные дата, время или длительность аукциона")
		return
	}

	if err := h.Repository.CreateAuction(&a); err != nil {
		h.storeError(c, err, "Error creating auction")
		return
	}

	h.successResponse(c, http.StatusCreated, "аукцион создан и ожидает утверждения", toAuctionResponse(a))
}

// UpdateAuction изменяет параметры аукциона в статусе pending
// @Summary Изменение аукциона
// @Tags Auctions
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param request body dto.UpdateAuctionRequest true "Изменяемые поля"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id} [put]
func (h *APIHandler) UpdateAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var request dto.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	a, err := h.Repository.GetAuctionByID(id)
	if err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}
	if a.CreatorID != userID && userRole != role.Moderator {
		h.errorResponse(c, http.StatusForbidden, codeBadRequest, "изменять аукцион может только его создатель")
		return
	}
	if a.Status != ds.StatusPending {
		h.errorResponse(c, http.StatusConflict, codeStatusConflict, "изменять можно только аукцион в статусе pending")
		return
	}

	err = h.Repository.UpdateAuctionFields(id,
		request.Title, request.Description,
		request.Date, request.StartTime,
		request.DurationMinutes, request.CeilingPrice, request.StepAmount)
	if err != nil {
		h.storeError(c, err, "Error updating auction")
		return
	}

	updated, err := h.Repository.GetAuctionByID(id)
	if err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}
	h.successResponse(c, http.StatusOK, "аукцион обновлён", toAuctionResponse(*updated))
}

// ApproveAuction утверждает аукцион
// @Summary Утверждение аукциона
// @Description Модератор утверждает pending-аукцион; дальше статусами управляет только время
// @Tags Moderation
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/approve [put]
func (h *APIHandler) ApproveAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	moderatorID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	if err := h.Repository.ApproveAuction(id, moderatorID); err != nil {
		logrus.Error("Error approving auction: ", err)
		h.errorResponse(c, http.StatusBadRequest, codeStatusConflict, err.Error())
		return
	}
	h.successResponse(c, http.StatusOK, "аукцион утверждён", nil)
}

// RejectAuction отклоняет аукцион
// @Summary Отклонение аукциона
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param request body dto.RejectAuctionRequest true "Причина отклонения"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/reject [put]
func (h *APIHandler) RejectAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var request dto.RejectAuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "REASON_REQUIRED", "требуется указать причину отклонения")
		return
	}

	moderatorID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	if err := h.Repository.RejectAuction(id, moderatorID, request.Reason); err != nil {
		logrus.Error("Error rejecting auction: ", err)
		h.errorResponse(c, http.StatusBadRequest, codeStatusConflict, err.Error())
		return
	}
	h.successResponse(c, http.StatusOK, "аукцион отклонён", nil)
}

// GetAuctionStatus возвращает сохранённый и расчётный статус аукциона
// @Summary Статус аукциона
// @Description Расчётный статус определяется по времени и может опережать сохранённый
// @Tags Auctions
// @Produce json
// @Param id path int true "ID аукциона"
// @Success 200 {object} dto.AuctionStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/status [get]
func (h *APIHandler) GetAuctionStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.Repository.GetAuctionByID(id)
	if err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	liveness := auction.Evaluate(*a, h.Clock.Now())
	resp := dto.AuctionStatusResponse{
		AuctionID:        a.ID,
		PersistedStatus:  string(a.Status),
		CalculatedStatus: string(liveness.Calculated),
		IsLive:           liveness.IsLive,
	}
	if start, end, err := auction.StartEnd(*a, h.Clock.Location()); err == nil {
		resp.StartsAt = start.Format(time.RFC3339)
		resp.EndsAt = end.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// ============ Приглашения ============

// InviteBidder приглашает поставщика в аукцион
// @Summary Приглашение поставщика
// @Description Список участников фиксируется до старта торгов
// @Tags Invitations
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param request body dto.InviteBidderRequest true "Поставщик"
// @Security BearerAuth
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/invitations [post]
func (h *APIHandler) InviteBidder(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var request dto.InviteBidderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	bidder, err := h.Repository.GetUserByID(request.BidderID)
	if err != nil {
		h.storeError(c, err, "Error getting bidder")
		return
	}
	if role.Role(bidder.Role) != role.Bidder {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "пригласить можно только поставщика")
		return
	}

	if err := h.Repository.AddInvitation(id, request.BidderID, h.Clock.Now()); err != nil {
		logrus.Error("Error adding invitation: ", err)
		h.errorResponse(c, http.StatusBadRequest, codeStatusConflict, err.Error())
		return
	}
	h.successResponse(c, http.StatusCreated, "поставщик приглашён", nil)
}

// RemoveInvitation отзывает приглашение
// @Summary Отзыв приглашения
// @Tags Invitations
// @Produce json
// @Param id path int true "ID аукциона"
// @Param bidder_id path int true "ID поставщика"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/invitations/{bidder_id} [delete]
func (h *APIHandler) RemoveInvitation(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	bidderID, ok := h.parseIDParam(c, "bidder_id")
	if !ok {
		return
	}

	if err := h.Repository.RemoveInvitation(id, bidderID, h.Clock.Now()); err != nil {
		logrus.Error("Error removing invitation: ", err)
		h.errorResponse(c, http.StatusBadRequest, codeStatusConflict, err.Error())
		return
	}
	h.successResponse(c, http.StatusOK, "приглашение отозвано", nil)
}

// GetInvitations возвращает приглашённых поставщиков
// @Summary Список приглашённых
// @Tags Invitations
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {array} dto.InvitationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/invitations [get]
func (h *APIHandler) GetInvitations(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	invitations, err := h.Repository.ListInvitations(id)
	if err != nil {
		h.storeError(c, err, "Error listing invitations")
		return
	}

	resp := make([]dto.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		resp[i] = dto.InvitationResponse{
			BidderID:    inv.BidderID,
			Login:       inv.Bidder.Login,
			CompanyName: inv.Bidder.CompanyName,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ============ Документы ============

// UploadAuctionDocument загружает документ закупки в MinIO
// @Summary Загрузка документа
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID аукциона"
// @Param file formData file true "Файл документа"
// @Param title formData string false "Название документа"
// @Security BearerAuth
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/documents [post]
func (h *APIHandler) UploadAuctionDocument(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "файл не передан")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.storeError(c, err, "Error opening uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.storeError(c, err, "Error reading uploaded file")
		return
	}

	fileName, err := h.MinIOClient.UploadDocument(data, fileHeader.Filename)
	if err != nil {
		h.storeError(c, err, "Error uploading document")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	doc := ds.AuctionDocument{
		AuctionID:  id,
		FileName:   fileName,
		Title:      title,
		UploadedBy: userID,
	}
	if err := h.Repository.AddAuctionDocument(&doc); err != nil {
		// запись не создана - убираем осиротевший объект
		if delErr := h.MinIOClient.DeleteDocument(fileName); delErr != nil {
			logrus.Error("Error deleting orphan document: ", delErr)
		}
		h.storeError(c, err, "Error saving document record")
		return
	}

	h.successResponse(c, http.StatusCreated, "документ загружен", dto.DocumentResponse{
		ID:       doc.ID,
		Title:    doc.Title,
		FileName: doc.FileName,
	})
}

// GetAuctionDocuments возвращает документы аукциона со ссылками на скачивание
// @Summary Документы аукциона
// @Tags Documents
// @Produce json
// @Param id path int true "ID аукциона"
// @Success 200 {array} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/documents [get]
func (h *APIHandler) GetAuctionDocuments(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.Repository.ListAuctionDocuments(id)
	if err != nil {
		h.storeError(c, err, "Error listing documents")
		return
	}

	resp := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		url, err := h.MinIOClient.GetDocumentURL(doc.FileName)
		if err != nil {
			logrus.Error("Error generating document URL: ", err)
		}
		resp[i] = dto.DocumentResponse{
			ID:       doc.ID,
			Title:    doc.Title,
			FileName: doc.FileName,
			URL:      url,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteAuctionDocument удаляет документ
// @Summary Удаление документа
// @Tags Documents
// @Produce json
// @Param id path int true "ID аукциона"
// @Param doc_id path int true "ID документа"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/documents/{doc_id} [delete]
func (h *APIHandler) DeleteAuctionDocument(c *gin.Context) {
	if _, ok := h.parseIDParam(c, "id"); !ok {
		return
	}
	docID, ok := h.parseIDParam(c, "doc_id")
	if !ok {
		return
	}

	doc, err := h.Repository.GetAuctionDocument(docID)
	if err != nil {
		h.storeError(c, err, "Error getting document")
		return
	}

	if err := h.MinIOClient.DeleteDocument(doc.FileName); err != nil {
		logrus.Error("Error deleting document from storage: ", err)
	}
	if err := h.Repository.DeleteAuctionDocument(docID); err != nil {
		h.storeError(c, err, "Error deleting document record")
		return
	}
	h.successResponse(c, http.StatusOK, "документ удалён", nil)
}
