package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BidService управляет предложениями: создание с фиксацией комиссии
// и ранжирование по сумме.
type BidService struct {
	Repo    repository.BidRepository
	Tenders repository.TenderRepository
}

// NewBidService создаёт новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, tenders repository.TenderRepository) *BidService {
	return &BidService{Repo: repo, Tenders: tenders}
}

// CreateBid создает предложение по открытому тендеру. Сумма и срок приходят
// строками из формы: оба должны разбираться как положительные числа.
// Комиссия 5% и чистый доход вычисляются здесь один раз и замораживаются.
func (s *BidService) CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	if bidReq.TenderID == "" || bidReq.ContractorID == "" || bidReq.ContractorName == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}

	amount, err := decimal.NewFromString(bidReq.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "amount must be a positive number")
	}

	durationDays, err := strconv.Atoi(bidReq.DurationDays)
	if err != nil || durationDays <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "durationDays must be a positive integer")
	}

	tender, err := s.Tenders.GetTenderByID(ctx, bidReq.TenderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tender.Status != models.OpenTender {
		return nil, models.NewErrorResponse(http.StatusConflict, "tender is no longer open for bidding")
	}

	fee, net := models.CalculateFees(amount)
	newBid := models.Bid{
		ID:             uuid.New().String(),
		TenderID:       bidReq.TenderID,
		ContractorID:   bidReq.ContractorID,
		ContractorName: bidReq.ContractorName,
		Amount:         amount,
		DurationDays:   durationDays,
		PlatformFee:    fee,
		NetEarnings:    net,
		Status:         models.PendingBid,
		CreatedAt:      time.Now().UTC(),
	}
	return s.Repo.CreateBid(ctx, newBid)
}

// GetTenderBids возвращает предложения по тендеру, отсортированные по
// возрастанию суммы. При pendingOnly возвращаются только ожидающие
// предложения - варианты для выбора победителя.
func (s *BidService) GetTenderBids(ctx context.Context, tenderID string, pendingOnly bool) ([]models.Bid, error) {
	if tenderID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: tenderId")
	}
	bids, err := s.Repo.GetTenderBids(ctx, tenderID, pendingOnly)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch bids")
	}
	return models.RankBids(bids), nil
}

// GetLowestBid возвращает самое дешёвое предложение по тендеру.
// Это подсказка для карточки тендера, клиент вправе выбрать любое предложение.
func (s *BidService) GetLowestBid(ctx context.Context, tenderID string) (*models.Bid, error) {
	if tenderID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: tenderId")
	}
	bids, err := s.Repo.GetTenderBids(ctx, tenderID, false)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch bids")
	}
	lowest := models.LowestBid(bids)
	if lowest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "no bids found for this tender")
	}
	return lowest, nil
}

// GetContractorBids возвращает предложения подрядчика.
func (s *BidService) GetContractorBids(ctx context.Context, limit, offset int, contractorID string) ([]models.Bid, error) {
	if contractorID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: contractorId")
	}
	return s.Repo.GetContractorBids(ctx, limit, offset, contractorID)
}
