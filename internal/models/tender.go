package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TenderStatus string // Статус тендера

const (
	OpenTender    TenderStatus = "Open"    // Тендер открыт для предложений
	AwardedTender TenderStatus = "Awarded" // Победитель выбран
	PaidTender    TenderStatus = "Paid"    // Оплата подтверждена
)

// DeadlinePeriod - фиксированный срок приёма предложений с момента публикации.
const DeadlinePeriod = 7 * 24 * time.Hour

// allowedTenderTransitions описывает допустимые переходы статуса тендера.
// Жизненный цикл строго однонаправленный, отмены и переоткрытия не предусмотрены.
var allowedTenderTransitions = map[TenderStatus][]TenderStatus{
	OpenTender:    {AwardedTender},
	AwardedTender: {PaidTender},
	PaidTender:    {},
}

// CanTransition сообщает, допустим ли переход статуса тендера в newStatus.
func (s TenderStatus) CanTransition(newStatus TenderStatus) bool {
	for _, next := range allowedTenderTransitions[s] {
		if next == newStatus {
			return true
		}
	}
	return false
}

// IsValid проверяет, что статус тендера известен системе.
func (s TenderStatus) IsValid() bool {
	switch s {
	case OpenTender, AwardedTender, PaidTender:
		return true
	}
	return false
}

// Tender представляет модель тендера.
type Tender struct {
	ID                  string           `json:"id"`
	ClientID            string           `json:"clientId"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Location            string           `json:"location"`
	RegulatoryID        string           `json:"regulatoryId"`
	Status              TenderStatus     `json:"status"`
	CreatedAt           time.Time        `json:"createdAt"`
	Deadline            time.Time        `json:"deadline"`
	AwardedBidID        *string          `json:"awardedBidId,omitempty"`
	AwardedContractorID *string          `json:"awardedContractorId,omitempty"`
	AwardedAmount       *decimal.Decimal `json:"awardedAmount,omitempty"`
	PlatformFee         *decimal.Decimal `json:"platformFee,omitempty"`
	AwardedAt           *time.Time       `json:"awardedAt,omitempty"`
	PaymentDate         *time.Time       `json:"paymentDate,omitempty"`
}

// TenderRequest представляет структуру запроса для создания тендера.
// Публикация требует явного подтверждения отказа от ответственности:
// платформа только соединяет стороны и не отвечает за качество работ,
// налоги и споры после передачи результата.
type TenderRequest struct {
	ClientID           string `json:"clientId"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Location           string `json:"location"`
	RegulatoryID       string `json:"regulatoryId"`
	DisclaimerAccepted bool   `json:"disclaimerAccepted"`
}

// AwardRequest представляет структуру запроса на выбор победителя.
type AwardRequest struct {
	ClientID     string `json:"clientId"`
	BidID        string `json:"bidId"`
	Confirmation string `json:"confirmation"`
}

// PaymentRequest представляет структуру запроса на подтверждение оплаты.
type PaymentRequest struct {
	ClientID string `json:"clientId"`
}
