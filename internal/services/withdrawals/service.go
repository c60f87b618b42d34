package withdrawals

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/svcerr"
)

const (
	PageSize = 5

	bankLookups = 8
	qrBaseURL   = "https://img.vietqr.io/image/"
)

var (
	ErrRequestNotFound = errors.New("withdrawal request not found")
	ErrNoBankInfo      = errors.New("no bank information for this user")
)

// Source is the slice of the backend used for withdrawal approval.
type Source interface {
	PendingWithdrawals(ctx context.Context, token string) ([]backend.Transaction, error)
	WithdrawInfo(ctx context.Context, token, userID string) (backend.BankInfo, error)
	ConfirmWithdraw(ctx context.Context, token, requestID string) error
	CancelWithdraw(ctx context.Context, token, requestID, reason string) error
}

// Row is a pending withdrawal with the requesting user's bank account, when known.
type Row struct {
	backend.Transaction
	Bank *backend.BankInfo
}

// Transfer is what the admin needs to pay out one request.
type Transfer struct {
	RequestID   string
	BankID      string
	AccountNo   string
	AccountName string
	Amount      float64
	QRImageURL  string
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// Pending loads every pending withdrawal with bank info and pages it locally.
func (s *Service) Pending(ctx context.Context, token string, page int) (*paging.Controller[Row], error) {
	rows, err := s.pendingRows(ctx, token)
	if err != nil {
		return nil, err
	}
	ctrl, err := paging.NewStatic(PageSize, rows)
	if err != nil {
		return nil, err
	}
	_ = ctrl.GoTo(ctx, page)
	return ctrl, nil
}

func (s *Service) pendingRows(ctx context.Context, token string) ([]Row, error) {
	list, err := s.src.PendingWithdrawals(ctx, token)
	if err != nil {
		return nil, svcerr.Wrap("pending_withdrawals", err)
	}
	banks := s.bankInfo(ctx, token, list)
	rows := make([]Row, len(list))
	for i, tx := range list {
		rows[i] = Row{Transaction: tx}
		if b, ok := banks[string(tx.UserID)]; ok {
			rows[i].Bank = &b
		}
	}
	return rows, nil
}

// bankInfo fetches bank details once per distinct user. Users whose lookup
// fails are simply missing from the map.
func (s *Service) bankInfo(ctx context.Context, token string, list []backend.Transaction) map[string]backend.BankInfo {
	seen := map[string]bool{}
	var ids []string
	for _, tx := range list {
		id := string(tx.UserID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	results := make([]*backend.BankInfo, len(ids))
	var g errgroup.Group
	g.SetLimit(bankLookups)
	for i, id := range ids {
		g.Go(func() error {
			info, err := s.src.WithdrawInfo(ctx, token, id)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("user_id", id).Msg("bank info lookup failed")
				return nil
			}
			results[i] = &info
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]backend.BankInfo, len(ids))
	for i, id := range ids {
		if results[i] != nil {
			out[id] = *results[i]
		}
	}
	return out
}

// Transfer builds the payout details and QR code for a pending request.
func (s *Service) Transfer(ctx context.Context, token, requestID string) (Transfer, error) {
	rows, err := s.pendingRows(ctx, token)
	if err != nil {
		return Transfer{}, err
	}
	for _, r := range rows {
		if string(r.ID) != requestID {
			continue
		}
		if r.Bank == nil {
			return Transfer{}, ErrNoBankInfo
		}
		return Transfer{
			RequestID:   requestID,
			BankID:      r.Bank.BankName,
			AccountNo:   r.Bank.AccountNumber,
			AccountName: r.Bank.AccountName,
			Amount:      r.Amount,
			QRImageURL:  QRImageURL(*r.Bank, r.Amount),
		}, nil
	}
	return Transfer{}, ErrRequestNotFound
}

// QRImageURL returns the VietQR transfer image for the account, or "" when
// the bank or account number is unknown.
func QRImageURL(info backend.BankInfo, amount float64) string {
	if info.BankName == "" || info.AccountNumber == "" {
		return ""
	}
	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("accountName", info.AccountName)
	return qrBaseURL + url.PathEscape(info.BankName) + "-" + url.PathEscape(info.AccountNumber) +
		"-compact2.png?" + q.Encode()
}

func (s *Service) Confirm(ctx context.Context, token, requestID string) error {
	if strings.TrimSpace(requestID) == "" {
		return &svcerr.ValidationError{Field: "requestId", Message: "Invalid transaction ID"}
	}
	return svcerr.Wrap("confirm_withdraw", s.src.ConfirmWithdraw(ctx, token, requestID))
}

// Reject cancels a request; a reason is mandatory.
func (s *Service) Reject(ctx context.Context, token, requestID, reason string) error {
	if strings.TrimSpace(requestID) == "" {
		return &svcerr.ValidationError{Field: "requestId", Message: "Invalid transaction ID"}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &svcerr.ValidationError{Field: "reason", Message: "Please enter a rejection reason"}
	}
	return svcerr.Wrap("cancel_withdraw", s.src.CancelWithdraw(ctx, token, requestID, reason))
}
