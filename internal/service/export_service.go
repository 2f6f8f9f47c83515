package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/repository"
)

// ErrExportGenerateFail spreadsheet rendering failed
var ErrExportGenerateFail = errors.New("generate spreadsheet failed")

// ExportService spreadsheet exports for admins
type ExportService interface {
	// ExportTutorApplications pending applications as .xlsx; returns the
	// buffer and a suggested file name
	ExportTutorApplications(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	admin  AdminService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{admin: NewAdminService(repo, logger), logger: logger, now: time.Now}
}

var applicationColumns = []string{
	"User ID", "Email", "First name", "Last name", "Username", "Country",
	"Languages", "Intro", "Teaching experience", "Submitted at",
}

func (s *exportService) ExportTutorApplications(ctx context.Context) (*bytes.Buffer, string, error) {
	apps, err := s.admin.ListTutorApplications(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Applications"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F6B3F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, title := range applicationColumns {
		c := cell(colName(i), 1)
		f.SetCellValue(sheet, c, title)
		f.SetCellStyle(sheet, c, c, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "F", 20)
	f.SetColWidth(sheet, "G", "G", 30)
	f.SetColWidth(sheet, "H", "I", 50)
	f.SetColWidth(sheet, "J", "J", 22)

	for r, a := range apps {
		langs := make([]string, 0, len(a.Languages))
		for _, l := range a.Languages {
			langs = append(langs, fmt.Sprintf("%s (%s)", l.Name, strings.ToLower(l.Proficiency)))
		}
		values := []any{
			a.UserID, a.Email, a.FirstName, a.LastName, a.Username, a.Country,
			strings.Join(langs, ", "), a.Intro, a.TeachingExperience, a.SubmittedAt,
		}
		row := r + 2
		for c, v := range values {
			f.SetCellValue(sheet, cell(colName(c), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write spreadsheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("tutor_applications_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
