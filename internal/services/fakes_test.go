package services

import (
	"context"
	"time"

	"github.com/senyabanana/tenderbid/internal/models"
	"github.com/senyabanana/tenderbid/internal/repository"

	"github.com/jackc/pgx/v5"
)

// fakeStore - общее хранилище фейковых репозиториев в памяти.
// Повторяет семантику Postgres-реализаций, включая предусловия
// атомарных переходов award и pay.
type fakeStore struct {
	tenders map[string]*models.Tender
	bids    []*models.Bid
}

func newFakeStore() *fakeStore {
	return &fakeStore{tenders: make(map[string]*models.Tender)}
}

func (s *fakeStore) findBid(bidID string) *models.Bid {
	for _, b := range s.bids {
		if b.ID == bidID {
			return b
		}
	}
	return nil
}

type fakeTenderRepo struct {
	store *fakeStore
}

func (r *fakeTenderRepo) GetTenders(_ context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	var tenders []models.Tender
	for _, t := range r.store.tenders {
		if len(statuses) > 0 {
			matched := false
			for _, s := range statuses {
				if string(t.Status) == s {
					matched = true
				}
			}
			if !matched {
				continue
			}
		}
		tenders = append(tenders, *t)
	}
	return tenders, nil
}

func (r *fakeTenderRepo) GetUserTenders(_ context.Context, limit, offset int, clientID string) ([]models.Tender, error) {
	var tenders []models.Tender
	for _, t := range r.store.tenders {
		if t.ClientID == clientID {
			tenders = append(tenders, *t)
		}
	}
	return tenders, nil
}

func (r *fakeTenderRepo) GetTenderByID(_ context.Context, tenderID string) (*models.Tender, error) {
	t, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTenderRepo) CreateTender(_ context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	now := time.Now().UTC()
	t := &models.Tender{
		ID:           "tender-" + tenderReq.Title,
		ClientID:     tenderReq.ClientID,
		Title:        tenderReq.Title,
		Description:  tenderReq.Description,
		Location:     tenderReq.Location,
		RegulatoryID: tenderReq.RegulatoryID,
		Status:       models.OpenTender,
		CreatedAt:    now,
		Deadline:     now.Add(models.DeadlinePeriod),
	}
	r.store.tenders[t.ID] = t
	copied := *t
	return &copied, nil
}

func (r *fakeTenderRepo) AwardTender(_ context.Context, tenderID string, bid *models.Bid) (*models.Tender, error) {
	t, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if t.Status != models.OpenTender {
		return nil, repository.ErrAwardConflict
	}
	chosen := r.store.findBid(bid.ID)
	if chosen == nil || chosen.Status != models.PendingBid {
		return nil, repository.ErrAwardConflict
	}

	now := time.Now().UTC()
	amount := chosen.Amount
	fee := chosen.PlatformFee
	t.Status = models.AwardedTender
	t.AwardedBidID = &chosen.ID
	t.AwardedContractorID = &chosen.ContractorID
	t.AwardedAmount = &amount
	t.PlatformFee = &fee
	t.AwardedAt = &now

	chosen.Status = models.AwardedBid
	for _, b := range r.store.bids {
		if b.TenderID == tenderID && b.ID != chosen.ID && b.Status == models.PendingBid {
			b.Status = models.RejectedBid
		}
	}

	copied := *t
	return &copied, nil
}

func (r *fakeTenderRepo) PayTender(_ context.Context, tenderID, awardedBidID string) (*models.Tender, error) {
	t, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if t.Status != models.AwardedTender {
		return nil, repository.ErrPaymentConflict
	}
	awarded := r.store.findBid(awardedBidID)
	if awarded == nil || awarded.Status != models.AwardedBid {
		return nil, repository.ErrPaymentConflict
	}

	now := time.Now().UTC()
	t.Status = models.PaidTender
	t.PaymentDate = &now
	awarded.Status = models.PaidBid

	copied := *t
	return &copied, nil
}

type fakeBidRepo struct {
	store *fakeStore
}

func (r *fakeBidRepo) CreateBid(_ context.Context, bid models.Bid) (*models.Bid, error) {
	copied := bid
	r.store.bids = append(r.store.bids, &copied)
	result := copied
	return &result, nil
}

func (r *fakeBidRepo) GetBidByID(_ context.Context, bidID string) (*models.Bid, error) {
	b := r.store.findBid(bidID)
	if b == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBidRepo) GetTenderBids(_ context.Context, tenderID string, pendingOnly bool) ([]models.Bid, error) {
	var bids []models.Bid
	for _, b := range r.store.bids {
		if b.TenderID != tenderID {
			continue
		}
		if pendingOnly && b.Status != models.PendingBid {
			continue
		}
		bids = append(bids, *b)
	}
	return bids, nil
}

func (r *fakeBidRepo) GetContractorBids(_ context.Context, limit, offset int, contractorID string) ([]models.Bid, error) {
	var bids []models.Bid
	for _, b := range r.store.bids {
		if b.ContractorID == contractorID {
			bids = append(bids, *b)
		}
	}
	return bids, nil
}
