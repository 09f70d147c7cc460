package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type transactionsRepo struct{ q Querier }

var txnSelect = `
SELECT t.id, t.buyer_id, t.seller_id, t.item_id, t.amount, t.status, t.created_at,
       b.id, b.name, b.email,
       s.id, s.name, s.email,
       ` + itemColumns("i") + `
  FROM transactions t
  JOIN users b ON b.id = t.buyer_id
  JOIN users s ON s.id = t.seller_id
  JOIN items i ON i.id = t.item_id`

func scanTxn(row pgx.Row) (models.Transaction, error) {
	t := models.Transaction{
		Buyer:  &models.UserSummary{},
		Seller: &models.UserSummary{},
		Item:   &models.Item{},
	}
	dest := []any{
		&t.ID, &t.BuyerID, &t.SellerID, &t.ItemID, &t.Amount, &t.Status, &t.CreatedAt,
		&t.Buyer.ID, &t.Buyer.Name, &t.Buyer.Email,
		&t.Seller.ID, &t.Seller.Name, &t.Seller.Email,
	}
	dest = append(dest, itemDest(t.Item)...)
	err := row.Scan(dest...)
	return t, err
}

func (r *transactionsRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.Status == "" {
		t.Status = models.TxnPending
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO transactions(buyer_id, seller_id, item_id, amount, status)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING id, created_at`,
		t.BuyerID, t.SellerID, t.ItemID, t.Amount, string(t.Status),
	).Scan(&t.ID, &t.CreatedAt)
	return t, err
}

func (r *transactionsRepo) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	t, err := scanTxn(r.q.QueryRow(ctx, txnSelect+` WHERE t.id=$1`, id))
	return t, mapErr(err)
}

func (r *transactionsRepo) Transition(ctx context.Context, id int64, from, to models.TransactionStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE transactions SET status=$3 WHERE id=$1 AND status=$2`,
		id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *transactionsRepo) ListPendingBySeller(ctx context.Context, sellerID int64) ([]models.Transaction, error) {
	return r.list(ctx, txnSelect+` WHERE t.seller_id=$1 AND t.status=$2 ORDER BY t.created_at DESC`,
		sellerID, string(models.TxnPending))
}

func (r *transactionsRepo) ListBySeller(ctx context.Context, sellerID int64) ([]models.Transaction, error) {
	return r.list(ctx, txnSelect+` WHERE t.seller_id=$1 ORDER BY t.created_at DESC`, sellerID)
}

func (r *transactionsRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Transaction, error) {
	return r.list(ctx, txnSelect+` WHERE t.buyer_id=$1 ORDER BY t.created_at DESC`, buyerID)
}

func (r *transactionsRepo) SellerTotals(ctx context.Context, sellerID int64) (int64, int64, error) {
	var count, revenue int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*),
		        COALESCE(SUM(amount) FILTER (WHERE status=$2), 0)
		   FROM transactions
		  WHERE seller_id=$1`,
		sellerID, string(models.TxnCompleted),
	).Scan(&count, &revenue)
	return count, revenue, err
}

func (r *transactionsRepo) list(ctx context.Context, q string, args ...any) ([]models.Transaction, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
