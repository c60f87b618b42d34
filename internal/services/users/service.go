package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roomadmin/internal/backend"
	"roomadmin/internal/paging"
	"roomadmin/internal/services/svcerr"
)

const (
	PageSize        = 10
	HistoryPageSize = 5

	banLookups = 8
	// layout of <input type="datetime-local">
	expiresLayout = "2006-01-02T15:04"
)

var (
	ErrUserNotFound  = errors.New("no user with this ID")
	ErrAlreadyBanned = errors.New("this user is already banned")
)

// Source is the slice of the backend used for user management.
type Source interface {
	ListUsers(ctx context.Context, token string, page, size int) (backend.UserPage, error)
	GetUser(ctx context.Context, token, userID string) (backend.User, error)
	IsBanned(ctx context.Context, token, userID string) (bool, error)
	BanUser(ctx context.Context, token string, req backend.BanRequest) error
	ActiveBans(ctx context.Context, token string) ([]backend.Ban, error)
	Unban(ctx context.Context, token, userID string) error
	BanHistory(ctx context.Context, token, userID string) ([]backend.Ban, error)
}

// Row is a user with its current ban status.
type Row struct {
	backend.User
	Banned bool
}

// BanForm is the ban dialog input.
type BanForm struct {
	UserID    string
	Reason    string
	ExpiresAt string
}

// Service handles user listing, search, bans and unbans
type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// List opens the users table at page. A fetch failure is left on the
// returned controller.
func (s *Service) List(ctx context.Context, token string, page int) *paging.Controller[Row] {
	ctrl, _ := paging.NewRemote(PageSize, func(ctx context.Context, page int) (paging.Page[Row], error) {
		res, err := s.src.ListUsers(ctx, token, page, PageSize)
		if err != nil {
			return paging.Page[Row]{}, svcerr.Wrap("list_users", err)
		}
		p := res.Page()
		return paging.Page[Row]{
			Items:       s.withBanStatus(ctx, token, p.Items),
			TotalPages:  p.TotalPages,
			TotalItems:  p.TotalItems,
			HasNext:     p.HasNext,
			HasPrevious: p.HasPrevious,
		}, nil
	})
	_ = ctrl.Load(ctx, page)
	return ctrl
}

// withBanStatus looks up each user's ban flag concurrently. A failed
// lookup reads as not banned.
func (s *Service) withBanStatus(ctx context.Context, token string, list []backend.User) []Row {
	rows := make([]Row, len(list))
	var g errgroup.Group
	g.SetLimit(banLookups)
	for i, u := range list {
		rows[i] = Row{User: u}
		g.Go(func() error {
			banned, err := s.src.IsBanned(ctx, token, string(u.ID))
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("user_id", string(u.ID)).Msg("ban status lookup failed")
				return nil
			}
			rows[i].Banned = banned
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

// Search finds a single user by id.
func (s *Service) Search(ctx context.Context, token, userID string) (Row, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Row{}, &svcerr.ValidationError{Field: "userId", Message: "Please enter a User ID to search"}
	}
	u, err := s.src.GetUser(ctx, token, userID)
	if backend.IsNotFound(err) {
		return Row{}, ErrUserNotFound
	}
	if err != nil {
		return Row{}, svcerr.Wrap("get_user", err)
	}
	return s.withBanStatus(ctx, token, []backend.User{u})[0], nil
}

// Ban bans a user who is not banned yet.
func (s *Service) Ban(ctx context.Context, token string, form BanForm) error {
	form.UserID = strings.TrimSpace(form.UserID)
	form.Reason = strings.TrimSpace(form.Reason)
	form.ExpiresAt = strings.TrimSpace(form.ExpiresAt)
	if form.UserID == "" {
		return &svcerr.ValidationError{Field: "userId", Message: "User ID is required"}
	}
	if form.Reason == "" {
		return &svcerr.ValidationError{Field: "reason", Message: "Please enter a ban reason"}
	}
	if form.ExpiresAt != "" {
		if _, err := time.Parse(expiresLayout, form.ExpiresAt); err != nil {
			return &svcerr.ValidationError{Field: "expiresAt", Message: "Expiry must be a date and time"}
		}
	}

	banned, err := s.src.IsBanned(ctx, token, form.UserID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", form.UserID).Msg("ban status check failed, banning anyway")
	} else if banned {
		return ErrAlreadyBanned
	}
	err = s.src.BanUser(ctx, token, backend.BanRequest{
		UserID:    form.UserID,
		Reason:    form.Reason,
		ExpiresAt: form.ExpiresAt,
	})
	return svcerr.Wrap("ban_user", err)
}

func (s *Service) ActiveBans(ctx context.Context, token string) ([]backend.Ban, error) {
	out, err := s.src.ActiveBans(ctx, token)
	return out, svcerr.Wrap("active_bans", err)
}

func (s *Service) Unban(ctx context.Context, token, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &svcerr.ValidationError{Field: "userId", Message: "User ID is required"}
	}
	return svcerr.Wrap("unban", s.src.Unban(ctx, token, userID))
}

// History loads a user's full ban history and pages it locally.
func (s *Service) History(ctx context.Context, token, userID string, page int) (*paging.Controller[backend.Ban], error) {
	list, err := s.src.BanHistory(ctx, token, strings.TrimSpace(userID))
	if err != nil {
		return nil, svcerr.Wrap("ban_history", err)
	}
	ctrl, err := paging.NewStatic(HistoryPageSize, list)
	if err != nil {
		return nil, err
	}
	_ = ctrl.GoTo(ctx, page)
	return ctrl, nil
}
