package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/senyabanana/tenderbid/internal/alerts"
	"github.com/senyabanana/tenderbid/internal/utils"
)

// AlertHandler - структура для выдачи активного уведомления пользователя.
type AlertHandler struct {
	Alerts *alerts.Manager
	Logger *log.Logger
}

// NewAlertHandler создаёт новый экземпляр AlertHandler.
func NewAlertHandler(alertManager *alerts.Manager, logger *log.Logger) *AlertHandler {
	return &AlertHandler{Alerts: alertManager, Logger: logger}
}

// GetAlert возвращает активное уведомление пользователя.
// После автоматического сброса возвращается 204 без тела.
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing required query parameter: userId")
		return
	}

	alert := h.Alerts.Get(userID)
	if alert == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(alert); err != nil {
		h.Logger.Println(err)
	}
}
