package services

import (
	"context"
	"testing"
	"time"

	"nftmarket/internal/store"
)

type window struct {
	start, end time.Time
}

type stubStats struct {
	windows []window
}

func (s *stubStats) record(start, end time.Time) {
	s.windows = append(s.windows, window{start, end})
}

func (s *stubStats) DepositCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error) {
	s.record(start, end)
	return []store.StatusCount{{Status: "pending", Count: 3}, {Status: "approved", Count: 2}}, nil
}

func (s *stubStats) WithdrawalCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error) {
	s.record(start, end)
	return nil, nil
}

func (s *stubStats) NFTCounts(ctx context.Context, start, end time.Time) ([]store.StatusCount, error) {
	s.record(start, end)
	return nil, nil
}

func (s *stubStats) DepositApprovedSums(ctx context.Context, start, end time.Time) ([]store.NetworkSum, error) {
	s.record(start, end)
	return []store.NetworkSum{{Network: "WETH", Total: 5 * unit}}, nil
}

func (s *stubStats) WithdrawalApprovedSums(ctx context.Context, start, end time.Time) ([]store.NetworkSum, error) {
	s.record(start, end)
	return nil, nil
}

func (s *stubStats) UserCount(ctx context.Context, start, end time.Time) (int64, error) {
	s.record(start, end)
	return 4, nil
}

func (s *stubStats) TransactionCount(ctx context.Context, start, end time.Time) (int64, error) {
	s.record(start, end)
	return 9, nil
}

func (s *stubStats) Reconcile(ctx context.Context) ([]store.ReconcileRow, error) {
	return []store.ReconcileRow{
		{UserID: "alice", Username: "alice", Network: "WETH", Balance: unit / 2, LedgerSum: unit, Difference: -unit / 2},
	}, nil
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		previous, current int64
		want              string
	}{
		{0, 0, "0"},
		{0, 5, "100"},
		{100, 150, "50"},
		{200, 100, "-50"},
		{3, 1, "-66.67"},
		{8, 8, "0"},
	}
	for _, tc := range cases {
		if got := PercentChange(tc.previous, tc.current); got != tc.want {
			t.Errorf("PercentChange(%d, %d) = %q, want %q", tc.previous, tc.current, got, tc.want)
		}
	}
}

func TestDetailedComparesAgainstPrecedingWindow(t *testing.T) {
	stats := &stubStats{}
	svc := NewReportService(stats)

	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -7)
	out, err := svc.Detailed(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Detailed: %v", err)
	}

	prevStart := start.AddDate(0, 0, -7)
	for i, w := range stats.windows {
		switch {
		case w.start.Equal(start) && w.end.Equal(end):
		case w.start.Equal(prevStart) && w.end.Equal(start):
		default:
			t.Errorf("window %d = [%v, %v), want the report window or the one before it", i, w.start, w.end)
		}
	}
	if out.Deposits.TotalCount != 5 {
		t.Errorf("deposit total = %d, want 5", out.Deposits.TotalCount)
	}
	// Both windows return the same counts, so the delta is zero.
	if out.Deposits.ChangePercent != "0" {
		t.Errorf("deposit change = %q, want 0", out.Deposits.ChangePercent)
	}
	if got := out.DepositVolume.ByNetwork["WETH"]; got != "5" {
		t.Errorf("deposit volume = %q, want 5", got)
	}
}

func TestReconcileFormatsMinorUnits(t *testing.T) {
	svc := NewReportService(&stubStats{})

	rows, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Balance != "0.5" || row.LedgerSum != "1" || row.Difference != "-0.5" {
		t.Errorf("row = %+v", row)
	}
}
