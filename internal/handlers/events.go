package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tenderbid/internal/realtime"
	"github.com/senyabanana/tenderbid/internal/services"
	"github.com/senyabanana/tenderbid/internal/utils"
)

// EventHandler отдаёт клиентам поток снимков коллекций через server-sent events.
// На каждое уведомление шины снимок перечитывается из хранилища целиком:
// локальное состояние клиента согласовано с хранилищем только в конечном счёте,
// порядок "прочитал своё же изменение" не гарантируется.
type EventHandler struct {
	Bus     *realtime.Bus
	Tenders *services.TenderService
	Bids    *services.BidService
	Chat    *services.ChatService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewEventHandler создаёт новый экземпляр EventHandler.
func NewEventHandler(bus *realtime.Bus, tenders *services.TenderService, bids *services.BidService, chat *services.ChatService, logger *log.Logger, timeout time.Duration) *EventHandler {
	return &EventHandler{
		Bus:     bus,
		Tenders: tenders,
		Bids:    bids,
		Chat:    chat,
		Logger:  logger,
		Timeout: timeout,
	}
}

// StreamTenders отдаёт поток снимков коллекции тендеров.
func (h *EventHandler) StreamTenders(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, h.Bus.TendersChannel(), func(ctx context.Context) (interface{}, error) {
		return h.Tenders.FetchTenders(ctx, 50, 0, nil)
	})
}

// StreamBids отдаёт поток снимков предложений по тендеру.
func (h *EventHandler) StreamBids(w http.ResponseWriter, r *http.Request) {
	tenderID := r.PathValue("tenderId")
	h.stream(w, r, h.Bus.BidsChannel(tenderID), func(ctx context.Context) (interface{}, error) {
		return h.Bids.GetTenderBids(ctx, tenderID, false)
	})
}

// StreamChat отдаёт поток снимков чата тендера.
func (h *EventHandler) StreamChat(w http.ResponseWriter, r *http.Request) {
	tenderID := r.PathValue("tenderId")
	h.stream(w, r, h.Bus.ChatChannel(tenderID), func(ctx context.Context) (interface{}, error) {
		return h.Chat.GetMessages(ctx, tenderID)
	})
}

// stream оформляет подписку на канал и пишет снимок при установке соединения
// и на каждое уведомление. Подписка закрывается при разрыве соединения.
func (h *EventHandler) stream(w http.ResponseWriter, r *http.Request, channel string, snapshot func(ctx context.Context) (interface{}, error)) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.SendErrorResponse(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	sub, err := h.Bus.Subscribe(r.Context(), channel)
	if err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if !h.writeSnapshot(r.Context(), w, flusher, snapshot) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
			if !h.writeSnapshot(r.Context(), w, flusher, snapshot) {
				return
			}
		}
	}
}

func (h *EventHandler) writeSnapshot(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, snapshot func(ctx context.Context) (interface{}, error)) bool {
	readCtx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	data, err := snapshot(readCtx)
	if err != nil {
		h.Logger.Println(err)
		return false
	}

	payload, err := json.Marshal(data)
	if err != nil {
		h.Logger.Println(err)
		return false
	}

	if _, err = fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
