package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/tenderbid/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices() (*TenderService, *BidService, *fakeStore) {
	store := newFakeStore()
	tenderRepo := &fakeTenderRepo{store: store}
	bidRepo := &fakeBidRepo{store: store}
	return NewTenderService(tenderRepo, bidRepo), NewBidService(bidRepo, tenderRepo), store
}

func requireErrorCode(t *testing.T, err error, statusCode int) *models.ErrorResponse {
	t.Helper()
	require.Error(t, err)
	errorResponse, ok := err.(*models.ErrorResponse)
	require.True(t, ok, "expected *models.ErrorResponse, got %T", err)
	require.Equal(t, statusCode, errorResponse.StatusCode)
	return errorResponse
}

func validTenderRequest() models.TenderRequest {
	return models.TenderRequest{
		ClientID:           "client-1",
		Title:              "Roof repair",
		Description:        "Replace damaged tiles",
		Location:           "X",
		RegulatoryID:       "R1",
		DisclaimerAccepted: true,
	}
}

func TestCreateTenderRequiresDisclaimer(t *testing.T) {
	tenderService, _, store := newTestServices()

	req := validTenderRequest()
	req.DisclaimerAccepted = false

	_, err := tenderService.CreateTender(context.Background(), req)
	requireErrorCode(t, err, http.StatusBadRequest)
	// Без согласия запись не создаётся.
	assert.Empty(t, store.tenders)
}

func TestCreateTenderRequiresAllFields(t *testing.T) {
	tenderService, _, store := newTestServices()

	tests := []struct {
		name   string
		mutate func(*models.TenderRequest)
	}{
		{"empty title", func(r *models.TenderRequest) { r.Title = "" }},
		{"empty description", func(r *models.TenderRequest) { r.Description = "" }},
		{"empty location", func(r *models.TenderRequest) { r.Location = "" }},
		{"empty regulatory id", func(r *models.TenderRequest) { r.RegulatoryID = "" }},
		{"empty client id", func(r *models.TenderRequest) { r.ClientID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTenderRequest()
			tt.mutate(&req)
			_, err := tenderService.CreateTender(context.Background(), req)
			requireErrorCode(t, err, http.StatusBadRequest)
		})
	}
	assert.Empty(t, store.tenders)
}

func TestCreateTenderSetsOpenStatusAndDeadline(t *testing.T) {
	tenderService, _, _ := newTestServices()

	tender, err := tenderService.CreateTender(context.Background(), validTenderRequest())
	require.NoError(t, err)

	assert.Equal(t, models.OpenTender, tender.Status)
	assert.Equal(t, tender.CreatedAt.Add(models.DeadlinePeriod), tender.Deadline)
	assert.Nil(t, tender.AwardedBidID)
}

// Сценарий из карточки тендера: два предложения, выбор более дешёвого,
// затем оплата. Проверяются статусы всех трёх записей на каждом шаге.
func TestAwardAndPayFlow(t *testing.T) {
	tenderService, bidService, store := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)

	bidA, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "contractor-a", ContractorName: "A",
		Amount: "10000", DurationDays: "5",
	})
	require.NoError(t, err)
	assert.True(t, bidA.PlatformFee.Equal(decimalFromString(t, "500")))
	assert.True(t, bidA.NetEarnings.Equal(decimalFromString(t, "9500")))

	bidB, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "contractor-b", ContractorName: "B",
		Amount: "8000", DurationDays: "7",
	})
	require.NoError(t, err)
	assert.True(t, bidB.PlatformFee.Equal(decimalFromString(t, "400")))
	assert.True(t, bidB.NetEarnings.Equal(decimalFromString(t, "7600")))

	// Более дешёвое предложение первым в ранжировании.
	ranked, err := bidService.GetTenderBids(ctx, tender.ID, false)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, bidB.ID, ranked[0].ID)

	awarded, err := tenderService.AwardTender(ctx, tender.ID, models.AwardRequest{
		ClientID:     "client-1",
		BidID:        bidB.ID,
		Confirmation: AwardConfirmationPhrase,
	})
	require.NoError(t, err)

	assert.Equal(t, models.AwardedTender, awarded.Status)
	require.NotNil(t, awarded.AwardedBidID)
	assert.Equal(t, bidB.ID, *awarded.AwardedBidID)
	assert.Equal(t, "contractor-b", *awarded.AwardedContractorID)
	assert.True(t, awarded.AwardedAmount.Equal(bidB.Amount))
	assert.Equal(t, models.AwardedBid, store.findBid(bidB.ID).Status)
	assert.Equal(t, models.RejectedBid, store.findBid(bidA.ID).Status)

	paid, err := tenderService.PayTender(ctx, tender.ID, models.PaymentRequest{ClientID: "client-1"})
	require.NoError(t, err)

	assert.Equal(t, models.PaidTender, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, models.PaidBid, store.findBid(bidB.ID).Status)
	// Комиссия осталась замороженной со времени подачи предложения.
	assert.True(t, paid.PlatformFee.Equal(bidB.PlatformFee))
}

func TestAwardTenderRequiresConfirmationPhrase(t *testing.T) {
	tenderService, bidService, _ := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)
	bid, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "c1", ContractorName: "C",
		Amount: "100", DurationDays: "1",
	})
	require.NoError(t, err)

	_, err = tenderService.AwardTender(ctx, tender.ID, models.AwardRequest{
		ClientID: "client-1", BidID: bid.ID, Confirmation: "confirm award",
	})
	requireErrorCode(t, err, http.StatusBadRequest)

	status, err := tenderService.GetTenderStatus(ctx, tender.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OpenTender, status)
}

func TestAwardTenderChecksOwnership(t *testing.T) {
	tenderService, bidService, _ := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)
	bid, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "c1", ContractorName: "C",
		Amount: "100", DurationDays: "1",
	})
	require.NoError(t, err)

	_, err = tenderService.AwardTender(ctx, tender.ID, models.AwardRequest{
		ClientID: "someone-else", BidID: bid.ID, Confirmation: AwardConfirmationPhrase,
	})
	requireErrorCode(t, err, http.StatusForbidden)
}

func TestAwardTenderRejectsForeignBid(t *testing.T) {
	tenderService, bidService, _ := newTestServices()
	ctx := context.Background()

	tender1, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)
	req2 := validTenderRequest()
	req2.Title = "Fence painting"
	tender2, err := tenderService.CreateTender(ctx, req2)
	require.NoError(t, err)

	foreignBid, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender2.ID, ContractorID: "c1", ContractorName: "C",
		Amount: "100", DurationDays: "1",
	})
	require.NoError(t, err)

	_, err = tenderService.AwardTender(ctx, tender1.ID, models.AwardRequest{
		ClientID: "client-1", BidID: foreignBid.ID, Confirmation: AwardConfirmationPhrase,
	})
	requireErrorCode(t, err, http.StatusBadRequest)
}

// Параллельный выбор победителя: вторая попытка проигрывает гонку
// и получает конфликт, второго победителя не появляется.
func TestConcurrentAwardOnlyOneWins(t *testing.T) {
	tenderService, bidService, store := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)

	bidA, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "ca", ContractorName: "A",
		Amount: "500", DurationDays: "2",
	})
	require.NoError(t, err)
	bidB, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "cb", ContractorName: "B",
		Amount: "600", DurationDays: "3",
	})
	require.NoError(t, err)

	// Оба запроса прошли предварительные проверки на снимке Open,
	// фиксируется только первый.
	firstBid, err := bidService.Repo.GetBidByID(ctx, bidA.ID)
	require.NoError(t, err)
	secondBid, err := bidService.Repo.GetBidByID(ctx, bidB.ID)
	require.NoError(t, err)

	_, err = tenderService.Repo.AwardTender(ctx, tender.ID, firstBid)
	require.NoError(t, err)
	_, err = tenderService.Repo.AwardTender(ctx, tender.ID, secondBid)
	require.Error(t, err)

	var winners int
	for _, b := range store.bids {
		if b.Status == models.AwardedBid || b.Status == models.PaidBid {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, bidA.ID, *store.tenders[tender.ID].AwardedBidID)
}

func TestPayTenderBeforeAwardRejected(t *testing.T) {
	tenderService, _, _ := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)

	_, err = tenderService.PayTender(ctx, tender.ID, models.PaymentRequest{ClientID: "client-1"})
	requireErrorCode(t, err, http.StatusConflict)
}

func TestPayTenderTwiceRejected(t *testing.T) {
	tenderService, bidService, _ := newTestServices()
	ctx := context.Background()

	tender, err := tenderService.CreateTender(ctx, validTenderRequest())
	require.NoError(t, err)
	bid, err := bidService.CreateBid(ctx, models.BidRequest{
		TenderID: tender.ID, ContractorID: "c1", ContractorName: "C",
		Amount: "100", DurationDays: "1",
	})
	require.NoError(t, err)

	_, err = tenderService.AwardTender(ctx, tender.ID, models.AwardRequest{
		ClientID: "client-1", BidID: bid.ID, Confirmation: AwardConfirmationPhrase,
	})
	require.NoError(t, err)
	_, err = tenderService.PayTender(ctx, tender.ID, models.PaymentRequest{ClientID: "client-1"})
	require.NoError(t, err)

	_, err = tenderService.PayTender(ctx, tender.ID, models.PaymentRequest{ClientID: "client-1"})
	requireErrorCode(t, err, http.StatusConflict)
}

func TestGetTenderStatusNotFound(t *testing.T) {
	tenderService, _, _ := newTestServices()

	_, err := tenderService.GetTenderStatus(context.Background(), "missing")
	requireErrorCode(t, err, http.StatusNotFound)
}

func TestFetchTendersRejectsUnknownStatus(t *testing.T) {
	tenderService, _, _ := newTestServices()

	_, err := tenderService.FetchTenders(context.Background(), 5, 0, []string{"Cancelled"})
	requireErrorCode(t, err, http.StatusBadRequest)
}
