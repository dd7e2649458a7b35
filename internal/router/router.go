package router

import (
	"net/http"

	"github.com/senyabanana/tenderbid/internal/handlers"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, bidHandler *handlers.BidHandler, chatHandler *handlers.ChatHandler, authHandler *handlers.AuthHandler, alertHandler *handlers.AlertHandler, eventHandler *handlers.EventHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/auth/anonymous", authHandler.SignInAnonymous)
	mux.HandleFunc("/api/auth/token", authHandler.SignInWithToken)

	mux.HandleFunc("/api/tenders", tenderHandler.GetTenders)
	mux.HandleFunc("/api/tenders/new", tenderHandler.CreateTender)
	mux.HandleFunc("/api/tenders/my", tenderHandler.GetUserTenders)
	mux.HandleFunc("/api/tenders/events", eventHandler.StreamTenders)
	mux.HandleFunc("GET /api/tenders/{tenderId}/status", tenderHandler.GetTenderStatus)
	mux.HandleFunc("POST /api/tenders/{tenderId}/award", tenderHandler.AwardTender)
	mux.HandleFunc("POST /api/tenders/{tenderId}/pay", tenderHandler.PayTender)

	mux.HandleFunc("/api/bids/new", bidHandler.CreateBid)
	mux.HandleFunc("/api/bids/my", bidHandler.GetContractorBids)
	mux.HandleFunc("GET /api/bids/{tenderId}/list", bidHandler.GetTenderBids)
	mux.HandleFunc("GET /api/bids/{tenderId}/lowest", bidHandler.GetLowestBid)
	mux.HandleFunc("GET /api/bids/{tenderId}/events", eventHandler.StreamBids)

	mux.HandleFunc("POST /api/chat/{tenderId}/messages", chatHandler.SendMessage)
	mux.HandleFunc("GET /api/chat/{tenderId}/messages", chatHandler.GetMessages)
	mux.HandleFunc("GET /api/chat/{tenderId}/events", eventHandler.StreamChat)

	mux.HandleFunc("/api/alerts", alertHandler.GetAlert)

	return mux
}
