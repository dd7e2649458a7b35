package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/tenderbid/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository - интерфейс для работы с чатом тендера.
// Сообщения только добавляются, редактирование и удаление не предусмотрены.
type ChatRepository interface {
	CreateMessage(ctx context.Context, tenderID string, msgReq models.ChatMessageRequest) (*models.ChatMessage, error)
	GetMessages(ctx context.Context, tenderID string) ([]models.ChatMessage, error)
}

// PostgresChatRepository - реализация ChatRepository для базы данных.
type PostgresChatRepository struct {
	DB       *pgxpool.Pool
	notifier Notifier
}

// NewPostgresChatRepository создаёт новый экземпляр PostgresChatRepository.
func NewPostgresChatRepository(db *pgxpool.Pool, notifier Notifier) *PostgresChatRepository {
	return &PostgresChatRepository{DB: db, notifier: notifier}
}

// CreateMessage добавляет сообщение в чат тендера.
func (r *PostgresChatRepository) CreateMessage(ctx context.Context, tenderID string, msgReq models.ChatMessageRequest) (*models.ChatMessage, error) {
	newMessage := models.ChatMessage{
		ID:         uuid.New().String(),
		TenderID:   tenderID,
		SenderID:   msgReq.SenderID,
		SenderName: msgReq.SenderName,
		Text:       msgReq.Text,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO chat_message (id, tender_id, sender_id, sender_name, text, created_at)
       VALUES ($1, $2, $3, $4, $5, $6)
   `,
		newMessage.ID,
		newMessage.TenderID,
		newMessage.SenderID,
		newMessage.SenderName,
		newMessage.Text,
		newMessage.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}

	_ = r.notifier.Publish(ctx, r.notifier.ChatChannel(tenderID), newMessage.ID)

	return &newMessage, nil
}

// GetMessages возвращает сообщения чата по возрастанию времени отправки.
func (r *PostgresChatRepository) GetMessages(ctx context.Context, tenderID string) ([]models.ChatMessage, error) {
	query := `SELECT id, tender_id, sender_id, sender_name, text, created_at
	          FROM chat_message WHERE tender_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.Query(ctx, query, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.TenderID,
			&m.SenderID,
			&m.SenderName,
			&m.Text,
			&m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
