package postgres

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type cartsRepo struct{ q Querier }

func (r *cartsRepo) Add(ctx context.Context, userID, itemID int64, quantity int) (models.CartItem, bool, error) {
	var (
		c       models.CartItem
		created bool
	)
	// xmax is zero only on rows this statement inserted
	err := r.q.QueryRow(ctx,
		`INSERT INTO cart_items(user_id, item_id, quantity) VALUES($1,$2,$3)
		 ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 RETURNING id, user_id, item_id, quantity, created_at, (xmax = 0)`,
		userID, itemID, quantity,
	).Scan(&c.ID, &c.UserID, &c.ItemID, &c.Quantity, &c.CreatedAt, &created)
	return c, created, err
}

func (r *cartsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *cartsRepo) ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT c.id, c.user_id, c.item_id, c.quantity, c.created_at, `+itemColumns("i")+`
		   FROM cart_items c
		   JOIN items i ON i.id = c.item_id
		  WHERE c.user_id=$1
		  ORDER BY c.created_at, c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CartItem{}
	for rows.Next() {
		c := models.CartItem{Item: &models.Item{}}
		dest := append([]any{&c.ID, &c.UserID, &c.ItemID, &c.Quantity, &c.CreatedAt}, itemDest(c.Item)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *cartsRepo) Clear(ctx context.Context, userID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}
