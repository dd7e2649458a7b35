package alerts

import (
	"sync"
	"time"
)

type Severity string // Уровень важности уведомления

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// DefaultTTL - время жизни уведомления до автоматического сброса.
const DefaultTTL = 4 * time.Second

// Alert - транзиентное уведомление для пользователя, выполнившего действие.
// Нигде не сохраняется.
type Alert struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	PostedAt time.Time `json:"postedAt"`
}

type entry struct {
	alert Alert
	gen   uint64
}

// Manager хранит не более одного активного уведомления на пользователя.
// Новое уведомление вытесняет предыдущее и перезапускает таймер сброса.
type Manager struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	gen     uint64
}

// NewManager создаёт менеджер уведомлений. При ttl <= 0 используется DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Post публикует уведомление для пользователя, заменяя активное.
func (m *Manager) Post(userID string, severity Severity, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	gen := m.gen
	m.entries[userID] = &entry{
		alert: Alert{
			Severity: severity,
			Message:  message,
			PostedAt: time.Now(),
		},
		gen: gen,
	}

	time.AfterFunc(m.ttl, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Сбрасываем только если уведомление не было вытеснено более новым.
		if e, ok := m.entries[userID]; ok && e.gen == gen {
			delete(m.entries, userID)
		}
	})
}

// Get возвращает активное уведомление пользователя или nil после сброса.
func (m *Manager) Get(userID string) *Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok {
		return nil
	}
	alert := e.alert
	return &alert
}
