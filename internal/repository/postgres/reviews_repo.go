package postgres

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
)

type reviewsRepo struct{ q Querier }

func (r *reviewsRepo) Create(ctx context.Context, rv models.Review) (models.Review, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO reviews(user_id, item_id, rating, comment) VALUES($1,$2,$3,$4) RETURNING id, created_at`,
		rv.UserID, rv.ItemID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
	return rv, err
}

func (r *reviewsRepo) ListByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	rows, err := r.q.Query(ctx,
		`SELECT r.id, r.user_id, r.item_id, r.rating, r.comment, r.created_at, u.id, u.name, u.email
		   FROM reviews r
		   JOIN users u ON u.id = r.user_id
		  WHERE r.item_id=$1
		  ORDER BY r.created_at DESC, r.id DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		rv := models.Review{User: &models.UserSummary{}}
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ItemID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.User.ID, &rv.User.Name, &rv.User.Email); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
