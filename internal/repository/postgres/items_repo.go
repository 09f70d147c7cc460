package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type itemsRepo struct{ q Querier }

var itemColumnNames = []string{
	"id", "name", "description", "category", "item_condition", "images",
	"price", "rent_price", "is_for_rent", "status", "owner_id", "created_at",
}

// itemColumns renders the item column list, optionally qualified by a table
// alias for use in joins.
func itemColumns(alias string) string {
	if alias == "" {
		return strings.Join(itemColumnNames, ", ")
	}
	cols := make([]string, len(itemColumnNames))
	for i, c := range itemColumnNames {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// itemDest returns scan targets matching itemColumns.
func itemDest(it *models.Item) []any {
	return []any{
		&it.ID, &it.Name, &it.Description, &it.Category, &it.Condition, &it.Images,
		&it.Price, &it.RentPrice, &it.IsForRent, &it.Status, &it.OwnerID, &it.CreatedAt,
	}
}

func (r *itemsRepo) Create(ctx context.Context, it models.Item) (models.Item, error) {
	if it.Images == nil {
		it.Images = []string{}
	}
	if it.Status == "" {
		it.Status = models.ItemAvailable
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO items(name, description, category, item_condition, images, price, rent_price, is_for_rent, status, owner_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING `+itemColumns(""),
		it.Name, it.Description, it.Category, it.Condition, it.Images,
		it.Price, it.RentPrice, it.IsForRent, string(it.Status), it.OwnerID,
	).Scan(itemDest(&it)...)
	return it, err
}

func (r *itemsRepo) GetByID(ctx context.Context, id int64) (models.Item, error) {
	var it models.Item
	err := r.q.QueryRow(ctx, `SELECT `+itemColumns("")+` FROM items WHERE id=$1`, id).Scan(itemDest(&it)...)
	return it, mapErr(err)
}

func (r *itemsRepo) ListAvailable(ctx context.Context) ([]models.Item, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns("")+` FROM items WHERE status=$1 ORDER BY created_at DESC`,
		string(models.ItemAvailable))
	return collectItems(rows, err)
}

func (r *itemsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns("")+` FROM items WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	return collectItems(rows, err)
}

func (r *itemsRepo) Update(ctx context.Context, it models.Item) (models.Item, error) {
	if it.Images == nil {
		it.Images = []string{}
	}
	err := r.q.QueryRow(ctx,
		`UPDATE items
		    SET name=$2, description=$3, category=$4, item_condition=$5, images=$6,
		        price=$7, rent_price=$8, is_for_rent=$9
		  WHERE id=$1
		  RETURNING `+itemColumns(""),
		it.ID, it.Name, it.Description, it.Category, it.Condition, it.Images,
		it.Price, it.RentPrice, it.IsForRent,
	).Scan(itemDest(&it)...)
	return it, mapErr(err)
}

func (r *itemsRepo) UpdateStatus(ctx context.Context, id int64, status models.ItemStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *itemsRepo) Transition(ctx context.Context, id int64, from, to models.ItemStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET status=$3 WHERE id=$1 AND status=$2`, id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *itemsRepo) ListByCategories(ctx context.Context, categories []string) ([]models.Item, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns("")+` FROM items WHERE category = ANY($1) ORDER BY created_at DESC`, categories)
	return collectItems(rows, err)
}

func (r *itemsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *itemsRepo) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM items WHERE owner_id=$1`, ownerID).Scan(&n)
	return n, err
}

func collectItems(rows pgx.Rows, err error) ([]models.Item, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(itemDest(&it)...); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
