package postgres

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
)

type notificationsRepo struct{ q Querier }

func (r *notificationsRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO notifications(user_id, message, type) VALUES($1,$2,$3) RETURNING id, created_at`,
		n.UserID, n.Message, n.Type,
	).Scan(&n.ID, &n.CreatedAt)
	return n, err
}

// CreateMany inserts all rows in one statement.
func (r *notificationsRepo) CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error) {
	if len(ns) == 0 {
		return nil, nil
	}
	users := make([]int64, len(ns))
	msgs := make([]string, len(ns))
	types := make([]string, len(ns))
	for i, n := range ns {
		users[i], msgs[i], types[i] = n.UserID, n.Message, n.Type
	}

	rows, err := r.q.Query(ctx,
		`INSERT INTO notifications(user_id, message, type)
		 SELECT * FROM unnest($1::bigint[], $2::text[], $3::text[])
		 RETURNING id, user_id, message, type, created_at`,
		users, msgs, types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Notification, 0, len(ns))
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, message, type, created_at
		   FROM notifications
		  WHERE user_id=$1
		  ORDER BY created_at DESC, id DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
