package store

import "context"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

type DepositStore struct {
	db DB
}

type Deposit struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Amount      int64   `db:"amount"`
	Network     string  `db:"network"`
	ProofFiles  string  `db:"proof_files"`
	Note        string  `db:"note"`
	Status      string  `db:"status"`
	AdminNote   string  `db:"admin_note"`
	ProcessedBy *string `db:"processed_by"`
	ProcessedAt any     `db:"processed_at"`
	CreatedAt   any     `db:"created_at"`
	Username    *string `db:"username"`
	Email       *string `db:"email"`
}

type DepositInput struct {
	ID         string
	UserID     string
	Amount     int64
	Network    string
	ProofFiles string
	Note       string
}

func NewDepositStore(db DB) *DepositStore {
	return &DepositStore{db: db}
}

func (s *DepositStore) Create(ctx context.Context, tx Execer, input DepositInput) error {
	query := `
		INSERT INTO deposits (id, user_id, amount, network, proof_files, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.UserID, input.Amount, input.Network, input.ProofFiles, input.Note)
	return err
}

func (s *DepositStore) GetByID(ctx context.Context, depositID string) (Deposit, error) {
	var row Deposit
	err := s.db.GetContext(ctx, &row, `
		SELECT d.id, d.user_id, d.amount, d.network, d.proof_files, d.note, d.status,
		       d.admin_note, d.processed_by, d.processed_at, d.created_at,
		       u.username, u.email
		FROM deposits d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`, depositID)
	return row, err
}

// GetForUpdate locks the deposit row so the pending-status check and the
// terminal transition happen under the same transaction.
func (s *DepositStore) GetForUpdate(ctx context.Context, tx Getter, depositID string) (Deposit, error) {
	var row Deposit
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, amount, network, proof_files, note, status,
		       admin_note, processed_by, processed_at, created_at
		FROM deposits
		WHERE id = $1
		FOR UPDATE
	`, depositID)
	return row, err
}

func (s *DepositStore) MarkProcessed(ctx context.Context, tx Execer, depositID, status, adminNote, processedBy string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE deposits
		SET status = $1, admin_note = $2, processed_by = $3, processed_at = NOW()
		WHERE id = $4
	`, status, adminNote, processedBy, depositID)
	return err
}

func (s *DepositStore) ListByUser(ctx context.Context, userID string, params ListParams) ([]Deposit, int, error) {
	where := ` WHERE d.user_id = $1`
	args := []any{userID}
	if params.Status != "" {
		where += ` AND d.status = $2`
		args = append(args, params.Status)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM deposits d`+where, args...); err != nil {
		return nil, 0, err
	}
	query := depositSelect + where + orderClause(params.SortBy, depositSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []Deposit
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *DepositStore) ListAll(ctx context.Context, params ListParams) ([]Deposit, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = ` WHERE d.status = $1`
		args = append(args, params.Status)
	}
	if params.Search != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		args = append(args, likePattern(params.Search))
		where += ` (u.username ILIKE $` + itoa(len(args)) + ` OR u.email ILIKE $` + itoa(len(args)) + `)`
	}
	var total int
	countQuery := `SELECT COUNT(1) FROM deposits d LEFT JOIN users u ON u.id = d.user_id` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}
	query := depositSelect + where + orderClause(params.SortBy, depositSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []Deposit
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

const depositSelect = `
	SELECT d.id, d.user_id, d.amount, d.network, d.proof_files, d.note, d.status,
	       d.admin_note, d.processed_by, d.processed_at, d.created_at,
	       u.username, u.email
	FROM deposits d
	LEFT JOIN users u ON u.id = d.user_id
`

var depositSortable = map[string]string{
	"amount":     "d.amount",
	"network":    "d.network",
	"status":     "d.status",
	"created_at": "d.created_at",
}
