package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/repository"

	"github.com/jackc/pgx/v5"
)

// AwardConfirmationPhrase - фраза, которую клиент обязан ввести перед выбором
// победителя. Выбор необратим, подтверждение защищает от случайного клика.
const AwardConfirmationPhrase = "CONFIRM AWARD"

// TenderService управляет жизненным циклом тендера: Open -> Awarded -> Paid.
type TenderService struct {
	Repo repository.TenderRepository
	Bids repository.BidRepository
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, bids repository.BidRepository) *TenderService {
	return &TenderService{Repo: repo, Bids: bids}
}

// FetchTenders получает список тендеров с необязательным фильтром по статусу.
func (s *TenderService) FetchTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	for _, status := range statuses {
		if !models.TenderStatus(status).IsValid() {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported tender status: %s", status))
		}
	}
	return s.Repo.GetTenders(ctx, limit, offset, statuses)
}

// CreateTender создает новый тендер. До обращения к хранилищу проверяются
// обязательные поля и явное согласие с отказом от ответственности:
// без согласия запись не создаётся.
func (s *TenderService) CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	if tenderReq.Title == "" || tenderReq.Description == "" || tenderReq.Location == "" ||
		tenderReq.RegulatoryID == "" || tenderReq.ClientID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if !tenderReq.DisclaimerAccepted {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "publishing a tender requires accepting the liability disclaimer")
	}
	return s.Repo.CreateTender(ctx, tenderReq)
}

// GetUserTenders получает список тендеров клиента.
func (s *TenderService) GetUserTenders(ctx context.Context, limit, offset int, clientID string) ([]models.Tender, error) {
	if clientID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: clientId")
	}
	return s.Repo.GetUserTenders(ctx, limit, offset, clientID)
}

// GetTenderStatus получает статус тендера.
func (s *TenderService) GetTenderStatus(ctx context.Context, tenderID string) (models.TenderStatus, error) {
	tender, err := s.Repo.GetTenderByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return "", models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return tender.Status, nil
}

// AwardTender выбирает победителя тендера. Выбрать можно любое ожидающее
// предложение своего тендера, не обязательно самое дешёвое. Все записи
// применяются одной транзакцией репозитория; проигравшая параллельная
// попытка получает конфликт и не оставляет частичных изменений.
func (s *TenderService) AwardTender(ctx context.Context, tenderID string, awardReq models.AwardRequest) (*models.Tender, error) {
	if tenderID == "" || awardReq.ClientID == "" || awardReq.BidID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: tenderId, clientId or bidId")
	}
	if awardReq.Confirmation != AwardConfirmationPhrase {
		return nil, models.NewErrorResponse(http.StatusBadRequest,
			fmt.Sprintf("awarding is irreversible, type %q to confirm", AwardConfirmationPhrase))
	}

	tender, err := s.Repo.GetTenderByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tender.ClientID != awardReq.ClientID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to award this tender")
	}
	if !tender.Status.CanTransition(models.AwardedTender) {
		return nil, models.NewErrorResponse(http.StatusConflict,
			fmt.Sprintf("tender in status %s cannot be awarded", tender.Status))
	}

	bid, err := s.Bids.GetBidByID(ctx, awardReq.BidID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "bid not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if bid.TenderID != tenderID {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid does not belong to this tender")
	}
	if !bid.Status.CanTransition(models.AwardedBid) {
		return nil, models.NewErrorResponse(http.StatusConflict,
			fmt.Sprintf("bid in status %s cannot be awarded", bid.Status))
	}

	awarded, err := s.Repo.AwardTender(ctx, tenderID, bid)
	if err != nil {
		if errors.Is(err, repository.ErrAwardConflict) {
			return nil, models.NewErrorResponse(http.StatusConflict, "tender was awarded concurrently, refresh and try again")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to award tender")
	}
	return awarded, nil
}

// PayTender подтверждает оплату по уже выбранному предложению.
// Комиссия не пересчитывается.
func (s *TenderService) PayTender(ctx context.Context, tenderID string, payReq models.PaymentRequest) (*models.Tender, error) {
	if tenderID == "" || payReq.ClientID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: tenderId or clientId")
	}

	tender, err := s.Repo.GetTenderByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tender.ClientID != payReq.ClientID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to pay for this tender")
	}
	if !tender.Status.CanTransition(models.PaidTender) {
		return nil, models.NewErrorResponse(http.StatusConflict,
			fmt.Sprintf("tender in status %s cannot be paid", tender.Status))
	}
	if tender.AwardedBidID == nil {
		return nil, models.NewErrorResponse(http.StatusConflict, "tender has no awarded bid")
	}

	paid, err := s.Repo.PayTender(ctx, tenderID, *tender.AwardedBidID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentConflict) {
			return nil, models.NewErrorResponse(http.StatusConflict, "tender payment state changed concurrently, refresh and try again")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to confirm payment")
	}
	return paid, nil
}
