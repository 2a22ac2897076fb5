package store

import "context"

const (
	WithdrawalOnChain  = "on-chain"
	WithdrawalInternal = "internal"
)

type WithdrawalStore struct {
	db DB
}

type Withdrawal struct {
	ID              string  `db:"id"`
	UserID          string  `db:"user_id"`
	Amount          int64   `db:"amount"`
	Network         string  `db:"network"`
	Type            string  `db:"type"`
	Destination     string  `db:"destination"`
	DestinationType string  `db:"destination_type"`
	Note            string  `db:"note"`
	Status          string  `db:"status"`
	AdminNote       string  `db:"admin_note"`
	ProcessedBy     *string `db:"processed_by"`
	ProcessedAt     any     `db:"processed_at"`
	CreatedAt       any     `db:"created_at"`
	Username        *string `db:"username"`
	Email           *string `db:"email"`
}

type WithdrawalInput struct {
	ID              string
	UserID          string
	Amount          int64
	Network         string
	Type            string
	Destination     string
	DestinationType string
	Note            string
}

func NewWithdrawalStore(db DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

func (s *WithdrawalStore) Create(ctx context.Context, tx Execer, input WithdrawalInput) error {
	query := `
		INSERT INTO withdrawals (id, user_id, amount, network, type, destination, destination_type, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Amount, input.Network, input.Type,
		input.Destination, input.DestinationType, input.Note,
	)
	return err
}

func (s *WithdrawalStore) GetByID(ctx context.Context, withdrawalID string) (Withdrawal, error) {
	var row Withdrawal
	err := s.db.GetContext(ctx, &row, `
		SELECT w.id, w.user_id, w.amount, w.network, w.type, w.destination, w.destination_type,
		       w.note, w.status, w.admin_note, w.processed_by, w.processed_at, w.created_at,
		       u.username, u.email
		FROM withdrawals w
		LEFT JOIN users u ON u.id = w.user_id
		WHERE w.id = $1
	`, withdrawalID)
	return row, err
}

func (s *WithdrawalStore) GetForUpdate(ctx context.Context, tx Getter, withdrawalID string) (Withdrawal, error) {
	var row Withdrawal
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, amount, network, type, destination, destination_type,
		       note, status, admin_note, processed_by, processed_at, created_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`, withdrawalID)
	return row, err
}

func (s *WithdrawalStore) MarkProcessed(ctx context.Context, tx Execer, withdrawalID, status, adminNote, processedBy string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = $1, admin_note = $2, processed_by = $3, processed_at = NOW()
		WHERE id = $4
	`, status, adminNote, processedBy, withdrawalID)
	return err
}

func (s *WithdrawalStore) ListByUser(ctx context.Context, userID string, params ListParams) ([]Withdrawal, int, error) {
	where := ` WHERE w.user_id = $1`
	args := []any{userID}
	if params.Status != "" {
		where += ` AND w.status = $2`
		args = append(args, params.Status)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM withdrawals w`+where, args...); err != nil {
		return nil, 0, err
	}
	query := withdrawalSelect + where + orderClause(params.SortBy, withdrawalSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []Withdrawal
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *WithdrawalStore) ListAll(ctx context.Context, params ListParams) ([]Withdrawal, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = ` WHERE w.status = $1`
		args = append(args, params.Status)
	}
	if params.Search != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		args = append(args, likePattern(params.Search))
		where += ` (u.username ILIKE $` + itoa(len(args)) + ` OR u.email ILIKE $` + itoa(len(args)) + ` OR w.destination ILIKE $` + itoa(len(args)) + `)`
	}
	var total int
	countQuery := `SELECT COUNT(1) FROM withdrawals w LEFT JOIN users u ON u.id = w.user_id` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}
	query := withdrawalSelect + where + orderClause(params.SortBy, withdrawalSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []Withdrawal
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

const withdrawalSelect = `
	SELECT w.id, w.user_id, w.amount, w.network, w.type, w.destination, w.destination_type,
	       w.note, w.status, w.admin_note, w.processed_by, w.processed_at, w.created_at,
	       u.username, u.email
	FROM withdrawals w
	LEFT JOIN users u ON u.id = w.user_id
`

var withdrawalSortable = map[string]string{
	"amount":     "w.amount",
	"network":    "w.network",
	"status":     "w.status",
	"type":       "w.type",
	"created_at": "w.created_at",
}
