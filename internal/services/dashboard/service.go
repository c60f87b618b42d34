package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/svcerr"
)

const (
	SummaryPageSize = 5
	UsersPageSize   = 10
)

// Source is the slice of the backend the dashboard reads.
type Source interface {
	Dashboard(ctx context.Context, token string) (backend.DashboardMetrics, error)
	SystemStatistics(ctx context.Context, token string) (backend.SystemStatistics, error)
	PendingWithdrawalSummary(ctx context.Context, token string) ([]backend.Transaction, error)
	TransactionsByType(ctx context.Context, token, txType string) ([]backend.Transaction, error)
	TransactionsByStatus(ctx context.Context, token, status string) ([]backend.Transaction, error)
	UsersByStatus(ctx context.Context, token, status string, page int) (backend.UserPage, error)
}

// Query carries the page requested for each dashboard table.
type Query struct {
	UsersPage        int
	WithdrawalsPage  int
	TransactionsPage int
}

// Overview is everything the dashboard renders.
type Overview struct {
	Metrics     backend.DashboardMetrics
	Stats       backend.SystemStatistics
	Deposits    []backend.Transaction
	Withdrawals *paging.Controller[backend.Transaction]
	Completed   *paging.Controller[backend.Transaction]
	ActiveUsers *paging.Controller[backend.User]
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// Overview loads the summary figures concurrently; any failure fails the
// summary as a whole. The active users table is fetched afterwards and
// keeps its own error on the controller.
func (s *Service) Overview(ctx context.Context, token string, q Query) (*Overview, error) {
	var (
		ov          Overview
		withdrawals []backend.Transaction
		completed   []backend.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ov.Metrics, err = s.src.Dashboard(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		ov.Stats, err = s.src.SystemStatistics(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = s.src.PendingWithdrawalSummary(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		ov.Deposits, err = s.src.TransactionsByType(gctx, token, "DEPOSIT")
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.src.TransactionsByStatus(gctx, token, "COMPLETED")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, svcerr.Wrap("dashboard_summary", err)
	}

	var err error
	if ov.Withdrawals, err = paging.NewStatic(SummaryPageSize, withdrawals); err != nil {
		return nil, err
	}
	if ov.Completed, err = paging.NewStatic(SummaryPageSize, completed); err != nil {
		return nil, err
	}
	_ = ov.Withdrawals.GoTo(ctx, q.WithdrawalsPage)
	_ = ov.Completed.GoTo(ctx, q.TransactionsPage)

	ov.ActiveUsers, err = paging.NewRemote(UsersPageSize, func(ctx context.Context, page int) (paging.Page[backend.User], error) {
		res, err := s.src.UsersByStatus(ctx, token, "ACTIVE", page)
		if err != nil {
			return paging.Page[backend.User]{}, err
		}
		return res.Page(), nil
	})
	if err != nil {
		return nil, err
	}
	// failure stays on the controller for the table's own error box
	_ = ov.ActiveUsers.Load(ctx, q.UsersPage)

	return &ov, nil
}
