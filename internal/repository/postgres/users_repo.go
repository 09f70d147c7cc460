package postgres

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
)

type usersRepo struct{ q Querier }

const userColumns = `id, name, email, password_hash, urn_id, role, created_at`

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO users(name, email, password_hash, urn_id, role)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.URNID, string(u.Role),
	).Scan(&u.ID, &u.CreatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *usersRepo) getOne(ctx context.Context, q string, arg any) (models.User, error) {
	var u models.User
	err := r.q.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.URNID, &u.Role, &u.CreatedAt)
	return u, mapErr(err)
}
