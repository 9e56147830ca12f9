package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var ErrExportGenerateFail = errors.New("failed to generate export file")

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"

	exportSheetName  = "설문조사"
	exportTimeLayout = "2006-01-02 15:04"
)

// ExportHeader 내보내기 열 순서
var ExportHeader = []string{
	"매장명", "대표자명", "연락처", "이메일", "업종", "매장규모", "위치",
	"네이버등록", "네이버사진", "네이버예약", "네이버소식", "인스타검색",
	"인스타영상수", "구글등록", "작성일시",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportService 파일 내용과 파일명을 반환. 응답 헤더는 핸들러가 작성
type ExportService interface {
	ExportCSV(ctx context.Context, filter repository.SurveyFilter) (*bytes.Buffer, string, error)
	ExportXLSX(ctx context.Context, filter repository.SurveyFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	surveyRepo repository.SurveyRepository
	loc        *time.Location
	metrics    *metrics.SurveyMetrics
	now        func() time.Time
}

func NewExportService(surveyRepo repository.SurveyRepository, loc *time.Location, m *metrics.SurveyMetrics) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{surveyRepo: surveyRepo, loc: loc, metrics: m, now: time.Now}
}

// ExportRow 헤더 순서대로 응답 한 건 변환
func ExportRow(s *model.SurveyResponse, loc *time.Location) []string {
	return []string{
		s.StoreName,
		s.OwnerName,
		s.PhoneNumber,
		s.Email,
		s.BusinessType.Label(),
		s.StoreSize.Label(),
		s.LocationType.Label(),
		registeredLabel(s.NaverRegistered),
		fmt.Sprintf("%d/5", s.NaverPhotosQuality),
		pick(s.NaverReservation, "활용", "미활용"),
		s.NaverNewsUpdate.Label(),
		pick(s.InstagramSearchable, "노출", "미노출"),
		strconv.Itoa(s.InstagramVideoCount),
		registeredLabel(s.GoogleRegistered),
		s.CreatedAt.In(loc).Format(exportTimeLayout),
	}
}

func registeredLabel(b bool) string {
	return pick(b, "등록", "미등록")
}

func pick(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func (s *exportService) load(ctx context.Context, filter repository.SurveyFilter) ([]model.SurveyResponse, error) {
	// exports cover the whole filtered set
	filter.Limit = 0
	filter.Offset = 0

	surveys, _, err := s.surveyRepo.List(ctx, filter)
	if err != nil {
		logger.Error("Failed to load surveys for export", err, nil)
		return nil, err
	}
	return surveys, nil
}

func (s *exportService) filename(ext string) string {
	return fmt.Sprintf("survey_responses_%s.%s", s.now().In(s.loc).Format("20060102_1504"), ext)
}

func (s *exportService) ExportCSV(ctx context.Context, filter repository.SurveyFilter) (*bytes.Buffer, string, error) {
	surveys, err := s.load(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	buf.Write(utf8BOM)

	w := csv.NewWriter(buf)
	if err := w.Write(ExportHeader); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
	}
	for i := range surveys {
		if err := w.Write(ExportRow(&surveys[i], s.loc)); err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("Failed to write CSV export", err, nil)
		return nil, "", fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
	}

	s.metrics.RecordExport(ExportFormatCSV)
	logger.Info("Survey CSV export generated", map[string]interface{}{
		"rows": len(surveys),
	})
	return buf, s.filename(ExportFormatCSV), nil
}

func (s *exportService) ExportXLSX(ctx context.Context, filter repository.SurveyFilter) (*bytes.Buffer, string, error) {
	surveys, err := s.load(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, title := range ExportHeader {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, c, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle)
	f.SetColWidth(exportSheetName, "A", "D", 20)
	f.SetColWidth(exportSheetName, "E", "N", 12)
	f.SetColWidth(exportSheetName, "O", "O", 18)
	f.SetPanes(exportSheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	videoCol := len(ExportHeader) - 2 // 인스타영상수
	for r := range surveys {
		row := ExportRow(&surveys[r], s.loc)
		for i, value := range row {
			c, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if i == videoCol {
				f.SetCellValue(exportSheetName, c, surveys[r].InstagramVideoCount)
				continue
			}
			f.SetCellValue(exportSheetName, c, value)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Error("Failed to write XLSX export", err, nil)
		return nil, "", fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
	}

	s.metrics.RecordExport(ExportFormatXLSX)
	logger.Info("Survey XLSX export generated", map[string]interface{}{
		"rows": len(surveys),
	})
	return buf, s.filename(ExportFormatXLSX), nil
}
