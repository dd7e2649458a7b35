package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/services"
	"github.com/senyabanana/tenderbid/internal/utils"
)

// ChatHandler - структура для обработки HTTP-запросов чата тендера.
type ChatHandler struct {
	Service *services.ChatService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewChatHandler создаёт новый экземпляр ChatHandler.
func NewChatHandler(service *services.ChatService, logger *log.Logger, timeout time.Duration) *ChatHandler {
	return &ChatHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// SendMessage обрабатывает запросы на отправку сообщения в чат тендера.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var msgReq models.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&msgReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.Service.SendMessage(ctx, tenderID, msgReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(message); err != nil {
		h.Logger.Println(err)
	}
}

// GetMessages обрабатывает запросы для получения сообщений чата тендера.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	messages, err := h.Service.GetMessages(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(messages); err != nil {
		h.Logger.Println(err)
	}
}
