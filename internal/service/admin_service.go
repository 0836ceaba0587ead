package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
	"github.com/OfficialEseosa/panther-watch/pkg/mailer"
)

var ErrMailDisabled = errors.New("outbound mail is not configured")

// AdminService backs the admin dashboard: aggregate counters, user
// search, the watch-list report, and ad-hoc mail.
type AdminService interface {
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
	SearchUsers(ctx context.Context, req *dto.UserSearchRequest) ([]dto.UserResponse, int64, error)
	WatchReport(ctx context.Context) ([]dto.WatchReportRow, error)
	// WatchReportXLSX renders the watch report as a spreadsheet. The
	// handler sets the download headers and streams the buffer.
	WatchReportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	SendCustomEmail(ctx context.Context, req *dto.SendCustomEmailRequest) error
}

type adminService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewAdminService creates the AdminService.
func NewAdminService(repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		mail:   mail,
		logger: logger,
	}
}

func (s *adminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	users, err := s.repo.User.Count(ctx)
	if err != nil {
		return nil, err
	}
	watched, err := s.repo.WatchedClass.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	uniquePairs, err := s.repo.WatchedClass.CountUniquePairs(ctx)
	if err != nil {
		return nil, err
	}
	scheduleRows, err := s.repo.UserSchedule.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	emails, err := s.repo.EmailLog.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &dto.AdminStatsResponse{
		TotalUsers:          users,
		TotalWatchedClasses: watched,
		UniqueWatchedCRNs:   uniquePairs,
		TotalScheduleRows:   scheduleRows,
		EmailsSent24h:       emails,
	}, nil
}

func (s *adminService) SearchUsers(ctx context.Context, req *dto.UserSearchRequest) ([]dto.UserResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	users, total, err := s.repo.User.Search(ctx, req.Query, (page-1)*size, size)
	if err != nil {
		s.logger.Error("user search failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userFromModel(&users[i]))
	}
	return out, total, nil
}

func (s *adminService) WatchReport(ctx context.Context) ([]dto.WatchReportRow, error) {
	return s.repo.WatchedClass.WatchReport(ctx)
}

func (s *adminService) WatchReportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.repo.WatchedClass.WatchReport(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Watch Report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#0039A6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"CRN", "Term", "Subject", "Course", "Title", "Watchers"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "E", "E", 40)

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.CRN)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Term)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Subject)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.CourseNumber)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.CourseTitle)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.Watchers)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("pantherwatch-watch-report-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

func (s *adminService) SendCustomEmail(ctx context.Context, req *dto.SendCustomEmailRequest) error {
	if !s.mail.Enabled() {
		return ErrMailDisabled
	}

	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.mail.Send(user.Email, req.Subject, req.Body); err != nil {
		s.logger.Error("custom email send failed",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return err
	}

	if err := s.repo.EmailLog.Create(ctx, &model.EmailLog{
		UserID:    &user.UserID,
		Recipient: user.Email,
		Kind:      model.EmailKindCustom,
		Subject:   req.Subject,
		SentAt:    time.Now(),
	}); err != nil {
		s.logger.Warn("email log write failed", zap.Error(err))
	}
	return nil
}
