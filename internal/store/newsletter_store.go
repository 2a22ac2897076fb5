package store

import "context"

type NewsletterStore struct {
	db DB
}

type NewsletterSubscription struct {
	ID             string `db:"id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	Status         string `db:"status"`
	SubscribedAt   any    `db:"subscribed_at"`
	UnsubscribedAt any    `db:"unsubscribed_at"`
}

func NewNewsletterStore(db DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

// Subscribe upserts by email so re-subscribing after an unsubscribe
// reactivates the same row.
func (s *NewsletterStore) Subscribe(ctx context.Context, tx Execer, id, email, name string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, name, status, subscribed_at)
		VALUES ($1, $2, $3, 'active', NOW())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, status = 'active', subscribed_at = NOW(), unsubscribed_at = NULL
	`, id, email, name)
	return err
}

func (s *NewsletterStore) Unsubscribe(ctx context.Context, tx Execer, email string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE newsletter_subscriptions
		SET status = 'inactive', unsubscribed_at = NOW()
		WHERE email = $1 AND status = 'active'
	`, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *NewsletterStore) List(ctx context.Context, params ListParams) ([]NewsletterSubscription, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = ` WHERE status = $1`
		args = append(args, params.Status)
	}
	if params.Search != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		args = append(args, likePattern(params.Search))
		where += ` (email ILIKE $` + itoa(len(args)) + ` OR name ILIKE $` + itoa(len(args)) + `)`
	}
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM newsletter_subscriptions`+where, args...); err != nil {
		return nil, 0, err
	}
	sortable := map[string]string{
		"email":      "email",
		"status":     "status",
		"created_at": "subscribed_at",
	}
	query := `
		SELECT id, email, name, status, subscribed_at, unsubscribed_at
		FROM newsletter_subscriptions
	` + where + orderClause(params.SortBy, sortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []NewsletterSubscription
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
