package store

import "context"

const (
	TxDeposit     = "deposit"
	TxWithdrawal  = "withdrawal"
	TxNFTPurchase = "nft-purchase"
	TxNFTSale     = "nft-sale"
)

// TransactionStore is the append-only log of ledger-affecting events. Rows
// are never updated or deleted.
type TransactionStore struct {
	db DB
}

type Transaction struct {
	ID             string `db:"id"`
	UserID         string `db:"user_id"`
	Type           string `db:"type"`
	Amount         int64  `db:"amount"`
	Network        string `db:"network"`
	Status         string `db:"status"`
	ReferenceID    string `db:"reference_id"`
	ReferenceModel string `db:"reference_model"`
	Description    string `db:"description"`
	CreatedAt      any    `db:"created_at"`
}

type TransactionInput struct {
	ID             string
	UserID         string
	Type           string
	Amount         int64
	Network        string
	Status         string
	ReferenceID    string
	ReferenceModel string
	Description    string
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, network, status, reference_id, reference_model, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Type, input.Amount, input.Network,
		input.Status, input.ReferenceID, input.ReferenceModel, input.Description,
	)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, network, status, reference_id, reference_model, description, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	if txType != "" {
		query += ` AND type = $2`
		args = append(args, txType)
	}
	query += ` ORDER BY created_at DESC` + limitOffsetClause(len(args))
	args = append(args, limit, offset)
	var rows []Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, network, status, reference_id, reference_model, description, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByUserAndNetwork totals the signed log amounts for one user and network,
// used by the reconcile report to compare against the stored balance.
func (s *TransactionStore) SumByUserAndNetwork(ctx context.Context, userID, network string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND network = $2
	`, userID, network)
	return sum, err
}
