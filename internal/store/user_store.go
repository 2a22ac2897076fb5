package store

import "context"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type User struct {
	ID            string `db:"id"`
	Username      string `db:"username"`
	Email         string `db:"email"`
	PasswordHash  string `db:"password_hash"`
	Role          string `db:"role"`
	EmailVerified bool   `db:"email_verified"`
	Newsletter    bool   `db:"newsletter"`
	CreatedAt     any    `db:"created_at"`
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash, role string) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, username, email, passwordHash, role)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, email_verified, newsletter, created_at
		FROM users
		WHERE email = $1
	`, email)
	return row, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, email_verified, newsletter, created_at
		FROM users
		WHERE username = $1
	`, username)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, email_verified, newsletter, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return row, err
}

func (s *UserStore) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.db.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1`, userID)
	return role, err
}

func (s *UserStore) SetRole(ctx context.Context, tx Execer, userID, role string) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, tx Execer, userID string, newsletter bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET newsletter = $1 WHERE id = $2`, newsletter, userID)
	return err
}

func (s *UserStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users WHERE role = 'admin'`)
	return count > 0, err
}

func (s *UserStore) List(ctx context.Context, params ListParams) ([]User, int, error) {
	where := ""
	args := []any{}
	if params.Search != "" {
		where = ` WHERE (username ILIKE $1 OR email ILIKE $1)`
		args = append(args, likePattern(params.Search))
	}
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM users`+where, args...); err != nil {
		return nil, 0, err
	}
	sortable := map[string]string{
		"username":   "username",
		"email":      "email",
		"created_at": "created_at",
	}
	query := `
		SELECT id, username, email, password_hash, role, email_verified, newsletter, created_at
		FROM users
	` + where + orderClause(params.SortBy, sortable, params.SortOrder)
	query += limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []User
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
