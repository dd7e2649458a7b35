package repository

import "context"

// Notifier - шина уведомлений об изменениях коллекций.
// Реализуется realtime.Bus; репозитории публикуют уведомление
// после каждой зафиксированной записи.
type Notifier interface {
	TendersChannel() string
	BidsChannel(tenderID string) string
	ChatChannel(tenderID string) string
	Publish(ctx context.Context, channel, payload string) error
}
