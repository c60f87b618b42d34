package verification

import (
	"context"
	"errors"
	"strings"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/svcerr"
)

const PageSize = 10

// Status filters the verification list. StatusAll lists every request.
type Status string

const (
	StatusAll      Status = "ALL"
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Statuses lists the filter options in display order.
var Statuses = []Status{StatusAll, StatusPending, StatusApproved, StatusRejected}

var ErrNotFound = errors.New("no verification request for this user ID")

// ParseStatus maps a query value to a Status; anything unknown is StatusAll.
func ParseStatus(v string) Status {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	for _, known := range Statuses {
		if s == known {
			return s
		}
	}
	return StatusAll
}

// Label is the admin-facing name of a filter or request status.
func (s Status) Label() string {
	switch s {
	case StatusAll:
		return "All"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// StatusOf normalises a request's status; an empty status is pending.
func StatusOf(v backend.Verification) Status {
	s := Status(strings.ToUpper(v.VerificationStatus))
	if s == StatusApproved || s == StatusRejected {
		return s
	}
	return StatusPending
}

// Source is the slice of the backend used for identity verification.
type Source interface {
	Verifications(ctx context.Context, token, status string, page, size int) ([]backend.Verification, error)
	VerificationByUser(ctx context.Context, token, userID string) (backend.Verification, error)
	ProcessVerification(ctx context.Context, token, userID string, approve bool) error
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// List opens the requests with status at page. The backend returns a bare
// array per page, so a full page is taken to mean another page may follow
// and the total item count is unknown.
// A changed status is a new list and therefore starts from page 0 in the
// caller.
func (s *Service) List(ctx context.Context, token string, status Status, page int) *paging.Controller[backend.Verification] {
	ctrl, _ := paging.NewRemote(PageSize, func(ctx context.Context, page int) (paging.Page[backend.Verification], error) {
		list, err := s.src.Verifications(ctx, token, string(status), page, PageSize)
		if err != nil {
			return paging.Page[backend.Verification]{}, svcerr.Wrap("verifications", err)
		}
		hasNext := len(list) == PageSize
		total := page + 1
		switch {
		case hasNext:
			total++
		case len(list) == 0 && page > 0:
			// empty page past the end
			total = page
		}
		return paging.Page[backend.Verification]{
			Items:       list,
			TotalPages:  total,
			HasNext:     hasNext,
			HasPrevious: page > 0,
		}, nil
	})
	_ = ctrl.Load(ctx, page)
	return ctrl
}

// ByUser returns the verification request of one user.
func (s *Service) ByUser(ctx context.Context, token, userID string) (backend.Verification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return backend.Verification{}, &svcerr.ValidationError{Field: "userId", Message: "Please enter a User ID to search"}
	}
	v, err := s.src.VerificationByUser(ctx, token, userID)
	if backend.IsNotFound(err) {
		return backend.Verification{}, ErrNotFound
	}
	return v, svcerr.Wrap("verification_by_user", err)
}

// Process approves or rejects a user's identity documents.
func (s *Service) Process(ctx context.Context, token, userID string, approve bool) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", &svcerr.ValidationError{Field: "userId", Message: "User ID is required"}
	}
	if err := s.src.ProcessVerification(ctx, token, userID, approve); err != nil {
		return "", svcerr.Wrap("process_verification", err)
	}
	if approve {
		return "Verification approved", nil
	}
	return "Verification rejected", nil
}
