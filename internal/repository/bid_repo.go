package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/tenderbid/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	CreateBid(ctx context.Context, bid models.Bid) (*models.Bid, error)
	GetBidByID(ctx context.Context, bidID string) (*models.Bid, error)
	GetTenderBids(ctx context.Context, tenderID string, pendingOnly bool) ([]models.Bid, error)
	GetContractorBids(ctx context.Context, limit, offset int, contractorID string) ([]models.Bid, error)
}

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB       *pgxpool.Pool
	notifier Notifier
}

// NewPostgresBidRepository создаёт новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool, notifier Notifier) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db, notifier: notifier}
}

const bidColumns = `id, tender_id, contractor_id, contractor_name, amount, duration_days,
	platform_fee, net_earnings, status, created_at`

func scanBid(row pgx.Row) (*models.Bid, error) {
	var b models.Bid
	err := row.Scan(
		&b.ID,
		&b.TenderID,
		&b.ContractorID,
		&b.ContractorName,
		&b.Amount,
		&b.DurationDays,
		&b.PlatformFee,
		&b.NetEarnings,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBid сохраняет предложение. Идентификатор, комиссия и чистый доход
// уже вычислены сервисом и дальше не пересчитываются.
func (r *PostgresBidRepository) CreateBid(ctx context.Context, bid models.Bid) (*models.Bid, error) {
	_, err := r.DB.Exec(ctx, `
       INSERT INTO bid (id, tender_id, contractor_id, contractor_name, amount, duration_days, platform_fee, net_earnings, status, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
   `,
		bid.ID,
		bid.TenderID,
		bid.ContractorID,
		bid.ContractorName,
		bid.Amount,
		bid.DurationDays,
		bid.PlatformFee,
		bid.NetEarnings,
		bid.Status,
		bid.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bid: %w", err)
	}

	_ = r.notifier.Publish(ctx, r.notifier.BidsChannel(bid.TenderID), bid.ID)

	return &bid, nil
}

// GetBidByID получает предложение по ID.
func (r *PostgresBidRepository) GetBidByID(ctx context.Context, bidID string) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id = $1`
	return scanBid(r.DB.QueryRow(ctx, query, bidID))
}

// GetTenderBids возвращает предложения по тендеру в порядке подачи.
// Ранжирование по сумме выполняется сервисом стабильной сортировкой,
// поэтому порядок выборки детерминирован: created_at, затем id.
func (r *PostgresBidRepository) GetTenderBids(ctx context.Context, tenderID string, pendingOnly bool) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE tender_id = $1`
	args := []interface{}{tenderID}
	if pendingOnly {
		query += ` AND status = $2`
		args = append(args, models.PendingBid)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, rows.Err()
}

// GetContractorBids возвращает предложения подрядчика, свежие первыми.
func (r *PostgresBidRepository) GetContractorBids(ctx context.Context, limit, offset int, contractorID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE contractor_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, contractorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, rows.Err()
}
