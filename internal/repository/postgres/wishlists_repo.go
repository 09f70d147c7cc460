package postgres

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type wishlistsRepo struct{ q Querier }

func (r *wishlistsRepo) Add(ctx context.Context, userID, itemID int64) (models.WishlistEntry, error) {
	w := models.WishlistEntry{UserID: userID, ItemID: itemID}
	err := r.q.QueryRow(ctx,
		`INSERT INTO wishlist(user_id, item_id) VALUES($1,$2) RETURNING id, created_at`,
		userID, itemID,
	).Scan(&w.ID, &w.CreatedAt)
	return w, mapErr(err)
}

func (r *wishlistsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM wishlist WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *wishlistsRepo) ListByUser(ctx context.Context, userID int64) ([]models.WishlistEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT w.id, w.user_id, w.item_id, w.created_at, `+itemColumns("i")+`
		   FROM wishlist w
		   JOIN items i ON i.id = w.item_id
		  WHERE w.user_id=$1
		  ORDER BY w.created_at DESC, w.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WishlistEntry{}
	for rows.Next() {
		w := models.WishlistEntry{Item: &models.Item{}}
		dest := append([]any{&w.ID, &w.UserID, &w.ItemID, &w.CreatedAt}, itemDest(w.Item)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
