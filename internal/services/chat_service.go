package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/repository"

	"github.com/jackc/pgx/v5"
)

// ChatService управляет чатом тендера.
type ChatService struct {
	Repo    repository.ChatRepository
	Tenders repository.TenderRepository
}

// NewChatService создаёт новый экземпляр ChatService.
func NewChatService(repo repository.ChatRepository, tenders repository.TenderRepository) *ChatService {
	return &ChatService{Repo: repo, Tenders: tenders}
}

// SendMessage добавляет сообщение в чат существующего тендера.
func (s *ChatService) SendMessage(ctx context.Context, tenderID string, msgReq models.ChatMessageRequest) (*models.ChatMessage, error) {
	if tenderID == "" || msgReq.SenderID == "" || msgReq.Text == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: tenderId, senderId or text")
	}

	if _, err := s.Tenders.GetTenderByID(ctx, tenderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return s.Repo.CreateMessage(ctx, tenderID, msgReq)
}

// GetMessages возвращает сообщения чата по возрастанию времени отправки.
func (s *ChatService) GetMessages(ctx context.Context, tenderID string) ([]models.ChatMessage, error) {
	if tenderID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: tenderId")
	}
	return s.Repo.GetMessages(ctx, tenderID)
}
