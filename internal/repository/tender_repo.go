package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/tenderbid/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

var (
	// ErrAwardConflict возвращается, когда тендер уже не в статусе Open:
	// параллельный выбор победителя выиграл гонку.
	ErrAwardConflict = errors.New("tender is no longer open for award")

	// ErrPaymentConflict возвращается, когда тендер не ожидает оплаты.
	ErrPaymentConflict = errors.New("tender is not awaiting payment")
)

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	GetTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error)
	GetUserTenders(ctx context.Context, limit, offset int, clientID string) ([]models.Tender, error)
	GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error)
	CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error)
	AwardTender(ctx context.Context, tenderID string, bid *models.Bid) (*models.Tender, error)
	PayTender(ctx context.Context, tenderID, awardedBidID string) (*models.Tender, error)
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB       *pgxpool.Pool
	notifier Notifier
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool, notifier Notifier) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db, notifier: notifier}
}

const tenderColumns = `id, client_id, title, description, location, regulatory_id, status, created_at, deadline,
	awarded_bid_id, awarded_contractor_id, awarded_amount, platform_fee, awarded_at, payment_date`

func scanTender(row pgx.Row) (*models.Tender, error) {
	var t models.Tender
	err := row.Scan(
		&t.ID,
		&t.ClientID,
		&t.Title,
		&t.Description,
		&t.Location,
		&t.RegulatoryID,
		&t.Status,
		&t.CreatedAt,
		&t.Deadline,
		&t.AwardedBidID,
		&t.AwardedContractorID,
		&t.AwardedAmount,
		&t.PlatformFee,
		&t.AwardedAt,
		&t.PaymentDate,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenders возвращает список тендеров, свежие первыми.
func (r *PostgresTenderRepository) GetTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}

// GetUserTenders возвращает список тендеров клиента.
func (r *PostgresTenderRepository) GetUserTenders(ctx context.Context, limit, offset int, clientID string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}

// GetTenderByID получает тендер по ID.
func (r *PostgresTenderRepository) GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE id = $1`
	return scanTender(r.DB.QueryRow(ctx, query, tenderID))
}

// CreateTender создает новый тендер в статусе Open со сроком приёма предложений 7 дней.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	now := time.Now().UTC()
	newTender := models.Tender{
		ID:           uuid.New().String(),
		ClientID:     tenderReq.ClientID,
		Title:        tenderReq.Title,
		Description:  tenderReq.Description,
		Location:     tenderReq.Location,
		RegulatoryID: tenderReq.RegulatoryID,
		Status:       models.OpenTender,
		CreatedAt:    now,
		Deadline:     now.Add(models.DeadlinePeriod),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO tender (id, client_id, title, description, location, regulatory_id, status, created_at, deadline)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
   `,
		newTender.ID,
		newTender.ClientID,
		newTender.Title,
		newTender.Description,
		newTender.Location,
		newTender.RegulatoryID,
		newTender.Status,
		newTender.CreatedAt,
		newTender.Deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", err)
	}

	// Уведомление не влияет на результат уже зафиксированной записи.
	_ = r.notifier.Publish(ctx, r.notifier.TendersChannel(), newTender.ID)

	return &newTender, nil
}

// AwardTender выбирает победителя одной атомарной транзакцией:
// тендер переходит в Awarded с метаданными из выбранного предложения,
// выбранное предложение переходит в Awarded, остальные ожидающие - в Rejected.
// Обновление тендера обусловлено статусом Open: при параллельном выборе
// победителя фиксируется ровно одна транзакция, проигравшая получает
// ErrAwardConflict и не оставляет частичных изменений.
func (r *PostgresTenderRepository) AwardTender(ctx context.Context, tenderID string, bid *models.Bid) (*models.Tender, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	awardedAt := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
		UPDATE tender
		SET status = $1, awarded_bid_id = $2, awarded_contractor_id = $3,
		    awarded_amount = $4, platform_fee = $5, awarded_at = $6
		WHERE id = $7 AND status = $8`,
		models.AwardedTender, bid.ID, bid.ContractorID,
		bid.Amount, bid.PlatformFee, awardedAt,
		tenderID, models.OpenTender)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAwardConflict
	}

	tag, err = tx.Exec(ctx, `UPDATE bid SET status = $1 WHERE id = $2 AND status = $3`,
		models.AwardedBid, bid.ID, models.PendingBid)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAwardConflict
	}

	_, err = tx.Exec(ctx, `UPDATE bid SET status = $1 WHERE tender_id = $2 AND status = $3 AND id <> $4`,
		models.RejectedBid, tenderID, models.PendingBid, bid.ID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = r.notifier.Publish(ctx, r.notifier.TendersChannel(), tenderID)
	_ = r.notifier.Publish(ctx, r.notifier.BidsChannel(tenderID), bid.ID)

	return r.GetTenderByID(ctx, tenderID)
}

// PayTender подтверждает оплату атомарной парой обновлений:
// тендер переходит в Paid с датой оплаты, выигравшее предложение - в Paid.
// Комиссия не пересчитывается, используются значения, замороженные при подаче.
func (r *PostgresTenderRepository) PayTender(ctx context.Context, tenderID, awardedBidID string) (*models.Tender, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE tender SET status = $1, payment_date = $2 WHERE id = $3 AND status = $4`,
		models.PaidTender, time.Now().UTC(), tenderID, models.AwardedTender)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPaymentConflict
	}

	tag, err = tx.Exec(ctx, `UPDATE bid SET status = $1 WHERE id = $2 AND status = $3`,
		models.PaidBid, awardedBidID, models.AwardedBid)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPaymentConflict
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = r.notifier.Publish(ctx, r.notifier.TendersChannel(), tenderID)
	_ = r.notifier.Publish(ctx, r.notifier.BidsChannel(tenderID), awardedBidID)

	return r.GetTenderByID(ctx, tenderID)
}
