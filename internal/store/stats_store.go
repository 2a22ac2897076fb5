package store

import (
	"context"
	"time"
)

// StatsStore holds the read-only aggregation queries behind the admin
// reporting dashboard. Everything is computed on demand; nothing is cached.
type StatsStore struct {
	db DB
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
	Total  int64  `db:"total"`
}

type NetworkSum struct {
	Network string `db:"network"`
	Total   int64  `db:"total"`
}

type ReconcileRow struct {
	UserID     string `db:"user_id"`
	Username   string `db:"username"`
	Network    string `db:"network"`
	Balance    int64  `db:"balance"`
	LedgerSum  int64  `db:"ledger_sum"`
	Difference int64  `db:"difference"`
}

func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) DepositCounts(ctx context.Context, start, end time.Time) ([]StatusCount, error) {
	return s.statusCounts(ctx, "deposits", start, end)
}

func (s *StatsStore) WithdrawalCounts(ctx context.Context, start, end time.Time) ([]StatusCount, error) {
	return s.statusCounts(ctx, "withdrawals", start, end)
}

func (s *StatsStore) NFTCounts(ctx context.Context, start, end time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(1) AS count, COALESCE(SUM(floor_price), 0) AS total
		FROM nfts
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *StatsStore) statusCounts(ctx context.Context, table string, start, end time.Time) ([]StatusCount, error) {
	// table is one of the fixed collection names above, never user input.
	var rows []StatusCount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(1) AS count, COALESCE(SUM(amount), 0) AS total
		FROM `+table+`
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *StatsStore) DepositApprovedSums(ctx context.Context, start, end time.Time) ([]NetworkSum, error) {
	return s.approvedSums(ctx, "deposits", start, end)
}

func (s *StatsStore) WithdrawalApprovedSums(ctx context.Context, start, end time.Time) ([]NetworkSum, error) {
	return s.approvedSums(ctx, "withdrawals", start, end)
}

func (s *StatsStore) approvedSums(ctx context.Context, table string, start, end time.Time) ([]NetworkSum, error) {
	var rows []NetworkSum
	err := s.db.SelectContext(ctx, &rows, `
		SELECT network, COALESCE(SUM(amount), 0) AS total
		FROM `+table+`
		WHERE status = 'approved' AND created_at >= $1 AND created_at < $2
		GROUP BY network
	`, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *StatsStore) UserCount(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM users WHERE created_at >= $1 AND created_at < $2
	`, start, end)
	return count, err
}

func (s *StatsStore) TransactionCount(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM transactions WHERE created_at >= $1 AND created_at < $2
	`, start, end)
	return count, err
}

// Reconcile compares each stored balance to the signed sum of its
// transaction log. Approved NFT mint fees debit balances without a log row,
// so owners of approved NFTs legitimately show a negative difference here.
func (s *StatsStore) Reconcile(ctx context.Context) ([]ReconcileRow, error) {
	var rows []ReconcileRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.user_id,
		       COALESCE(u.username, '') AS username,
		       b.network,
		       b.amount AS balance,
		       COALESCE(SUM(t.amount), 0) AS ledger_sum,
		       (b.amount - COALESCE(SUM(t.amount), 0)) AS difference
		FROM balances b
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN transactions t ON t.user_id = b.user_id AND t.network = b.network
		GROUP BY b.user_id, u.username, b.network, b.amount
		ORDER BY b.user_id, b.network
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
