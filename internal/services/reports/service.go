package reports

import (
	"context"
	"strings"

	"roomadmin/internal/backend"
	"roomadmin/internal/services/svcerr"
)

// Source is the slice of the backend used for report moderation.
type Source interface {
	PendingRoomReports(ctx context.Context, token string) ([]backend.RoomReport, error)
	ProcessRoomReport(ctx context.Context, token, reportID string, valid bool) error
	PendingUserReports(ctx context.Context, token string) ([]backend.UserReport, error)
}

// Service handles room report moderation and user report notifications
type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

func (s *Service) PendingRoomReports(ctx context.Context, token string) ([]backend.RoomReport, error) {
	out, err := s.src.PendingRoomReports(ctx, token)
	return out, svcerr.Wrap("room_reports", err)
}

// FindRoomReport picks the report with reportID out of list.
func FindRoomReport(list []backend.RoomReport, reportID string) (backend.RoomReport, bool) {
	for _, r := range list {
		if string(r.ID) == reportID {
			return r, true
		}
	}
	return backend.RoomReport{}, false
}

// ProcessRoomReport confirms (valid) or dismisses a report and returns the
// notice to show the admin.
func (s *Service) ProcessRoomReport(ctx context.Context, token, reportID string, valid bool) (string, error) {
	if strings.TrimSpace(reportID) == "" {
		return "", &svcerr.ValidationError{Field: "reportId", Message: "Report ID is required"}
	}
	if err := s.src.ProcessRoomReport(ctx, token, reportID, valid); err != nil {
		return "", svcerr.Wrap("process_room_report", err)
	}
	if valid {
		return "Report confirmed and the room was processed", nil
	}
	return "Report rejected", nil
}

func (s *Service) PendingUserReports(ctx context.Context, token string) ([]backend.UserReport, error) {
	out, err := s.src.PendingUserReports(ctx, token)
	return out, svcerr.Wrap("user_reports", err)
}
