package realtime

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Bus - шина уведомлений об изменениях коллекций поверх Redis pub/sub.
// Репозитории публикуют уведомление после каждой зафиксированной записи,
// подписчики по уведомлению перечитывают снимок коллекции целиком.
// Само уведомление данных не несёт, локальный кэш клиента согласован
// с хранилищем только в конечном счёте.
type Bus struct {
	client *redis.Client
	tenant string
}

// NewBus создаёт шину уведомлений для указанного арендатора.
func NewBus(addr, password, tenant string) *Bus {
	return &Bus{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		tenant: tenant,
	}
}

// TendersChannel возвращает имя канала коллекции тендеров.
func (b *Bus) TendersChannel() string {
	return b.tenant + ":tenders"
}

// BidsChannel возвращает имя канала предложений по тендеру.
func (b *Bus) BidsChannel(tenderID string) string {
	return b.tenant + ":bids:" + tenderID
}

// ChatChannel возвращает имя канала чата по тендеру.
func (b *Bus) ChatChannel(tenderID string) string {
	return b.tenant + ":chat:" + tenderID
}

// Publish отправляет уведомление об изменении в канал.
// payload - идентификатор изменённой записи, носит информационный характер.
func (b *Bus) Publish(ctx context.Context, channel, payload string) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

// Subscribe оформляет подписку на канал. Подписку обязательно закрывать
// через Close при выходе из области использования.
func (b *Bus) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan string, 16),
		done:   make(chan struct{}),
	}
	go sub.pump()
	return sub, nil
}

// Close закрывает соединение с Redis.
func (b *Bus) Close() error {
	return b.client.Close()
}

// Subscription - явная ручка подписки на канал изменений.
type Subscription struct {
	pubsub    *redis.PubSub
	events    chan string
	done      chan struct{}
	closeOnce sync.Once
}

// Events возвращает канал уведомлений. Канал закрывается после Close.
func (s *Subscription) Events() <-chan string {
	return s.events
}

// Close завершает подписку и освобождает соединение.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

// pump перекладывает уведомления из pubsub в events. Подписчик может
// бросить подписку с полным буфером, поэтому отправка соревнуется
// с done: иначе горутина навсегда застрянет в передаче.
func (s *Subscription) pump() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		select {
		case s.events <- msg.Payload:
		case <-s.done:
			return
		}
	}
}
