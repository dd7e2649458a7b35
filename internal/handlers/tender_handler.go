package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tenderbid/internal/alerts"
	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/services"
	"github.com/senyabanana/tenderbid/internal/utils"
)

// TenderHandler - структура для обработки HTTP-запросов жизненного цикла тендера.
// Все ошибки перехватываются на границе действия и превращаются в транзиентное
// уведомление инициатору, дальше они не распространяются.
type TenderHandler struct {
	Service *services.TenderService
	Logger  *log.Logger
	Timeout time.Duration
	Alerts  *alerts.Manager
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, logger *log.Logger, timeout time.Duration, alertManager *alerts.Manager) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
		Alerts:  alertManager,
	}
}

// alertSeverity выбирает уровень уведомления по коду ошибки:
// ошибки валидации - предупреждение, отказы хранилища и конфликты - ошибка.
func alertSeverity(statusCode int) alerts.Severity {
	if statusCode >= 500 || statusCode == http.StatusConflict {
		return alerts.Error
	}
	return alerts.Warning
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	statuses := r.URL.Query()["status"]

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tenders, err := h.Service.FetchTenders(ctx, limit, offset, statuses)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch tenders")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tenders); err != nil {
		h.Logger.Println(err)
	}
}

// CreateTender обрабатывает запросы для создания тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var tenderReq models.TenderRequest
	err := json.NewDecoder(r.Body).Decode(&tenderReq)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.CreateTender(ctx, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			h.Alerts.Post(tenderReq.ClientID, alertSeverity(errorResponse.StatusCode), errorResponse.Message)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		h.Alerts.Post(tenderReq.ClientID, alerts.Error, "failed to create tender")
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to create tender")
		return
	}

	h.Alerts.Post(tenderReq.ClientID, alerts.Success, "tender published")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Println(err)
	}
}

// GetUserTenders обрабатывает запросы для получения списка тендеров клиента.
func (h *TenderHandler) GetUserTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	clientID := r.URL.Query().Get("clientId")

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tenders, err := h.Service.GetUserTenders(ctx, limit, offset, clientID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println("Error fetching tenders:", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch tenders")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tenders); err != nil {
		h.Logger.Println(err)
	}
}

// GetTenderStatus обрабатывает запросы для получения статуса тендера.
func (h *TenderHandler) GetTenderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	status, err := h.Service.GetTenderStatus(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch tender status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(status); err != nil {
		h.Logger.Println(err)
	}
}

// AwardTender обрабатывает запросы на выбор победителя тендера.
func (h *TenderHandler) AwardTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var awardReq models.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&awardReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.AwardTender(ctx, tenderID, awardReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			h.Alerts.Post(awardReq.ClientID, alertSeverity(errorResponse.StatusCode), errorResponse.Message)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		h.Alerts.Post(awardReq.ClientID, alerts.Error, "failed to award tender")
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to award tender")
		return
	}

	h.Alerts.Post(awardReq.ClientID, alerts.Success, "tender awarded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Println(err)
	}
}

// PayTender обрабатывает запросы на подтверждение оплаты.
func (h *TenderHandler) PayTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var payReq models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&payReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.PayTender(ctx, tenderID, payReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			h.Alerts.Post(payReq.ClientID, alertSeverity(errorResponse.StatusCode), errorResponse.Message)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		h.Alerts.Post(payReq.ClientID, alerts.Error, "failed to confirm payment")
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to confirm payment")
		return
	}

	h.Alerts.Post(payReq.ClientID, alerts.Success, "payment confirmed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Println(err)
	}
}
