package models

import "time"

// ChatMessage представляет сообщение в чате тендера.
// Сообщения неизменяемы: редактирование и удаление не предусмотрены.
type ChatMessage struct {
	ID         string    `json:"id"`
	TenderID   string    `json:"tenderId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"timestamp"`
}

// ChatMessageRequest представляет структуру запроса для отправки сообщения.
type ChatMessageRequest struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
}
