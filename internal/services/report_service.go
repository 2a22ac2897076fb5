package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"nftmarket/internal/money"
	"nftmarket/internal/store"
)

type StatsStore interface {
	DepositCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error)
	WithdrawalCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error)
	NFTCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error)
	DepositApprovedSums(ctx context.Context, start, end time.Time) ([]store.NetworkSum, error)
	WithdrawalApprovedSums(ctx context.Context, start, end time.Time) ([]store.NetworkSum, error)
	UserCount(ctx context.Context, start, end time.Time) (int64, error)
	TransactionCount(ctx context.Context, start, end time.Time) (int64, error)
	Reconcile(ctx context.Context) ([]store.ReconcileRow, error)
}

// ReportService assembles the admin dashboard numbers. Each collection is
// aggregated over [start, end) and compared against the equal-length window
// immediately before it.
type ReportService struct {
	stats StatsStore
}

func NewReportService(stats StatsStore) *ReportService {
	return &ReportService{stats: stats}
}

type CollectionStats struct {
	ByStatus      []store.StatusCount `json:"byStatus"`
	TotalCount    int64               `json:"totalCount"`
	ChangePercent string              `json:"changePercent"`
}

type ApprovedVolume struct {
	ByNetwork     map[string]string `json:"byNetwork"`
	ChangePercent string            `json:"changePercent"`
}

type DetailedStats struct {
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	Deposits         CollectionStats `json:"deposits"`
	Withdrawals      CollectionStats `json:"withdrawals"`
	NFTs             CollectionStats `json:"nfts"`
	Users            CollectionStats `json:"users"`
	Transactions     CollectionStats `json:"transactions"`
	DepositVolume    ApprovedVolume  `json:"depositVolume"`
	WithdrawalVolume ApprovedVolume  `json:"withdrawalVolume"`
}

func (s *ReportService) Detailed(ctx context.Context, start, end time.Time) (DetailedStats, error) {
	window := end.Sub(start)
	prevStart := start.Add(-window)

	out := DetailedStats{
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
	}

	var err error
	if out.Deposits, err = s.collection(ctx, s.stats.DepositCounts, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.Withdrawals, err = s.collection(ctx, s.stats.WithdrawalCounts, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.NFTs, err = s.collection(ctx, s.stats.NFTCounts, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.Users, err = s.scalar(ctx, s.stats.UserCount, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.Transactions, err = s.scalar(ctx, s.stats.TransactionCount, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.DepositVolume, err = s.volume(ctx, s.stats.DepositApprovedSums, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	if out.WithdrawalVolume, err = s.volume(ctx, s.stats.WithdrawalApprovedSums, start, end, prevStart); err != nil {
		return DetailedStats{}, err
	}
	return out, nil
}

func (s *ReportService) collection(ctx context.Context, query func(context.Context, time.Time, time.Time) ([]store.StatusCount, error), start, end, prevStart time.Time) (CollectionStats, error) {
	current, err := query(ctx, start, end)
	if err != nil {
		return CollectionStats{}, err
	}
	previous, err := query(ctx, prevStart, start)
	if err != nil {
		return CollectionStats{}, err
	}
	if current == nil {
		current = []store.StatusCount{}
	}
	return CollectionStats{
		ByStatus:      current,
		TotalCount:    sumCounts(current),
		ChangePercent: PercentChange(sumCounts(previous), sumCounts(current)),
	}, nil
}

func (s *ReportService) scalar(ctx context.Context, query func(context.Context, time.Time, time.Time) (int64, error), start, end, prevStart time.Time) (CollectionStats, error) {
	current, err := query(ctx, start, end)
	if err != nil {
		return CollectionStats{}, err
	}
	previous, err := query(ctx, prevStart, start)
	if err != nil {
		return CollectionStats{}, err
	}
	return CollectionStats{
		ByStatus:      []store.StatusCount{},
		TotalCount:    current,
		ChangePercent: PercentChange(previous, current),
	}, nil
}

func (s *ReportService) volume(ctx context.Context, query func(context.Context, time.Time, time.Time) ([]store.NetworkSum, error), start, end, prevStart time.Time) (ApprovedVolume, error) {
	current, err := query(ctx, start, end)
	if err != nil {
		return ApprovedVolume{}, err
	}
	previous, err := query(ctx, prevStart, start)
	if err != nil {
		return ApprovedVolume{}, err
	}
	byNetwork := make(map[string]string, len(current))
	for _, row := range current {
		byNetwork[row.Network] = money.FormatMinor(row.Total)
	}
	return ApprovedVolume{
		ByNetwork:     byNetwork,
		ChangePercent: PercentChange(sumNetworks(previous), sumNetworks(current)),
	}, nil
}

type ReconcileEntry struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Network    string `json:"network"`
	Balance    string `json:"balance"`
	LedgerSum  string `json:"ledgerSum"`
	Difference string `json:"difference"`
}

// Reconcile reports balance vs transaction-log drift per user and network.
// Owners of approved NFTs show a negative difference because the mint-fee
// debit never writes a log row.
func (s *ReportService) Reconcile(ctx context.Context) ([]ReconcileEntry, error) {
	rows, err := s.stats.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ReconcileEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ReconcileEntry{
			UserID:     row.UserID,
			Username:   row.Username,
			Network:    row.Network,
			Balance:    money.FormatMinor(row.Balance),
			LedgerSum:  money.FormatMinor(row.LedgerSum),
			Difference: money.FormatMinor(row.Difference),
		})
	}
	return entries, nil
}

// PercentChange is ((current-previous)/previous)*100 rounded to two places,
// pinned to 100 when previous is zero and current is not, and 0 when both
// are zero.
func PercentChange(previous, current int64) string {
	if previous == 0 {
		if current == 0 {
			return "0"
		}
		return "100"
	}
	prev := decimal.NewFromInt(previous)
	cur := decimal.NewFromInt(current)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2).String()
}

func sumCounts(rows []store.StatusCount) int64 {
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	return total
}

func sumNetworks(rows []store.NetworkSum) int64 {
	var total int64
	for _, row := range rows {
		total += row.Total
	}
	return total
}
