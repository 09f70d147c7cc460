package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type rentalsRepo struct{ q Querier }

var rentalSelect = `
SELECT r.id, r.renter_id, r.item_id, r.start_date, r.end_date, r.total_rent, r.deposit, r.status, r.created_at,
       u.id, u.name, u.email,
       ` + itemColumns("i") + `
  FROM rentals r
  JOIN users u ON u.id = r.renter_id
  JOIN items i ON i.id = r.item_id`

func scanRental(row pgx.Row) (models.Rental, error) {
	rt := models.Rental{Renter: &models.UserSummary{}, Item: &models.Item{}}
	dest := []any{
		&rt.ID, &rt.RenterID, &rt.ItemID, &rt.StartDate, &rt.EndDate, &rt.TotalRent, &rt.Deposit, &rt.Status, &rt.CreatedAt,
		&rt.Renter.ID, &rt.Renter.Name, &rt.Renter.Email,
	}
	dest = append(dest, itemDest(rt.Item)...)
	err := row.Scan(dest...)
	return rt, err
}

func (r *rentalsRepo) Create(ctx context.Context, rt models.Rental) (models.Rental, error) {
	if rt.Status == "" {
		rt.Status = models.RentalPending
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO rentals(renter_id, item_id, start_date, end_date, total_rent, deposit, status)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id, created_at`,
		rt.RenterID, rt.ItemID, rt.StartDate, rt.EndDate, rt.TotalRent, rt.Deposit, string(rt.Status),
	).Scan(&rt.ID, &rt.CreatedAt)
	return rt, err
}

func (r *rentalsRepo) GetByID(ctx context.Context, id int64) (models.Rental, error) {
	rt, err := scanRental(r.q.QueryRow(ctx, rentalSelect+` WHERE r.id=$1`, id))
	return rt, mapErr(err)
}

func (r *rentalsRepo) Transition(ctx context.Context, id int64, from, to models.RentalStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE rentals SET status=$3 WHERE id=$1 AND status=$2`,
		id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *rentalsRepo) ListPendingByOwner(ctx context.Context, ownerID int64) ([]models.Rental, error) {
	return r.list(ctx, rentalSelect+` WHERE i.owner_id=$1 AND r.status=$2 ORDER BY r.created_at DESC`,
		ownerID, string(models.RentalPending))
}

func (r *rentalsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Rental, error) {
	return r.list(ctx, rentalSelect+` WHERE i.owner_id=$1 ORDER BY r.start_date DESC`, ownerID)
}

func (r *rentalsRepo) ListByRenter(ctx context.Context, renterID int64) ([]models.Rental, error) {
	return r.list(ctx, rentalSelect+` WHERE r.renter_id=$1 ORDER BY r.created_at DESC`, renterID)
}

func (r *rentalsRepo) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM rentals r JOIN items i ON i.id = r.item_id WHERE i.owner_id=$1`,
		ownerID).Scan(&n)
	return n, err
}

func (r *rentalsRepo) list(ctx context.Context, q string, args ...any) ([]models.Rental, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
