package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type BidStatus string // Статус предложения

const (
	PendingBid  BidStatus = "pending"  // Предложение ожидает решения
	AwardedBid  BidStatus = "Awarded"  // Предложение выбрано победителем
	RejectedBid BidStatus = "Rejected" // Предложение отклонено при выборе победителя
	PaidBid     BidStatus = "Paid"     // Оплата по предложению подтверждена
)

// CommissionRate - фиксированная комиссия платформы, 5% от суммы предложения.
var CommissionRate = decimal.NewFromFloat(0.05)

// allowedBidTransitions описывает допустимые переходы статуса предложения.
// Rejected и Paid - терминальные статусы.
var allowedBidTransitions = map[BidStatus][]BidStatus{
	PendingBid:  {AwardedBid, RejectedBid},
	AwardedBid:  {PaidBid},
	RejectedBid: {},
	PaidBid:     {},
}

// CanTransition сообщает, допустим ли переход статуса предложения в newStatus.
func (s BidStatus) CanTransition(newStatus BidStatus) bool {
	for _, next := range allowedBidTransitions[s] {
		if next == newStatus {
			return true
		}
	}
	return false
}

// Bid представляет модель предложения подрядчика.
// PlatformFee и NetEarnings вычисляются один раз при создании предложения
// и дальше не пересчитываются.
type Bid struct {
	ID             string          `json:"id"`
	TenderID       string          `json:"tenderId"`
	ContractorID   string          `json:"contractorId"`
	ContractorName string          `json:"contractorName"`
	Amount         decimal.Decimal `json:"amount"`
	DurationDays   int             `json:"durationDays"`
	PlatformFee    decimal.Decimal `json:"platformFee"`
	NetEarnings    decimal.Decimal `json:"netEarnings"`
	Status         BidStatus       `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BidRequest представляет структуру запроса для создания предложения.
// Amount и DurationDays приходят строками из формы и валидируются при разборе.
type BidRequest struct {
	TenderID       string `json:"tenderId"`
	ContractorID   string `json:"contractorId"`
	ContractorName string `json:"contractorName"`
	Amount         string `json:"amount"`
	DurationDays   string `json:"durationDays"`
}

// CalculateFees вычисляет комиссию платформы и чистый доход подрядчика.
// Комиссия округляется до 2 знаков, остаток уходит подрядчику,
// поэтому fee + net всегда в точности равно amount.
func CalculateFees(amount decimal.Decimal) (fee, net decimal.Decimal) {
	fee = amount.Mul(CommissionRate).Round(2)
	net = amount.Sub(fee)
	return fee, net
}

// RankBids возвращает предложения, отсортированные по возрастанию суммы.
// Сортировка стабильная: при равных суммах сохраняется исходный порядок подачи.
func RankBids(bids []Bid) []Bid {
	ranked := make([]Bid, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.LessThan(ranked[j].Amount)
	})
	return ranked
}

// LowestBid возвращает предложение с минимальной суммой или nil, если предложений нет.
// Это подсказка для выбора победителя, а не обязательный выбор.
func LowestBid(bids []Bid) *Bid {
	ranked := RankBids(bids)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}
