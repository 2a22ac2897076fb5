package store

import "context"

const (
	NetworkWETH = "WETH"
	NetworkETH  = "ETH"
)

func ValidNetwork(network string) bool {
	return network == NetworkWETH || network == NetworkETH
}

type BalanceStore struct {
	db DB
}

type Balance struct {
	ID      string `db:"id"`
	UserID  string `db:"user_id"`
	Network string `db:"network"`
	Amount  int64  `db:"amount"`
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

func (s *BalanceStore) Create(ctx context.Context, tx Execer, id, userID, network string, amount int64) error {
	query := `
		INSERT INTO balances (id, user_id, network, amount)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, network, amount)
	return err
}

func (s *BalanceStore) GetByUser(ctx context.Context, userID string) ([]Balance, error) {
	var rows []Balance
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, network, amount
		FROM balances
		WHERE user_id = $1
		ORDER BY network
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetForUpdate locks the row for the duration of the surrounding transaction
// so concurrent approvals serialize on the same balance.
func (s *BalanceStore) GetForUpdate(ctx context.Context, tx Getter, userID, network string) (Balance, error) {
	var row Balance
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, network, amount
		FROM balances
		WHERE user_id = $1 AND network = $2
		FOR UPDATE
	`, userID, network)
	if err != nil {
		return Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) UpdateAmount(ctx context.Context, tx Execer, balanceID string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET amount = $1, updated_at = NOW()
		WHERE id = $2
	`, amount, balanceID)
	return err
}

func (s *BalanceStore) AdjustAmount(ctx context.Context, tx Execer, userID, network string, delta int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET amount = amount + $1, updated_at = NOW()
		WHERE user_id = $2 AND network = $3
	`, delta, userID, network)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
