package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/senyabanana/tenderbid/internal/identity"
	"github.com/senyabanana/tenderbid/internal/utils"
)

// AuthHandler - структура для обработки запросов установления сессии.
type AuthHandler struct {
	Identity *identity.Service
	Logger   *log.Logger
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(identityService *identity.Service, logger *log.Logger) *AuthHandler {
	return &AuthHandler{Identity: identityService, Logger: logger}
}

// SignInAnonymous обрабатывает анонимный вход.
func (h *AuthHandler) SignInAnonymous(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	session, err := h.Identity.SignInAnonymous()
	if err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to establish session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(session); err != nil {
		h.Logger.Println(err)
	}
}

// SignInWithToken обрабатывает вход по токену начальной загрузки.
// Невалидный токен откатывается к анонимному входу внутри сервиса.
func (h *AuthHandler) SignInWithToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	var tokenReq struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&tokenReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Identity.SignInWithToken(tokenReq.Token)
	if err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to establish session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(session); err != nil {
		h.Logger.Println(err)
	}
}
