package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/tabular"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"Course Code", "Name", "Type", "Faculty", "Ratings", "Avg Quality", "Avg Difficulty", "Take Again %", "Mode"}

type citraLister interface {
	List(ctx context.Context, filter models.CitraFilter) ([]models.CitraSummary, bool, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the subject statistics table for download.
type ExportService struct {
	citras citraLister
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(citras citraLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{citras: citras, logger: logger, now: time.Now}
}

// Export renders every subject matching filter in the requested format.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, filter models.CitraFilter) (*ExportFile, error) {
	format = ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	items, _, err := s.citras.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := buildCitraDataset(items)
	generatedAt := s.now().UTC()

	var (
		body        []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		body, err = tabular.RenderCSV(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		body, err = tabular.RenderPDF(dataset, "Citra Ratings", "Generated "+generatedAt.Format(time.RFC1123))
		contentType = "application/pdf"
	}
	if err != nil {
		s.logger.Error("render export", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("citra_ratings_%s.%s", generatedAt.Format("20060102_150405"), format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func buildCitraDataset(items []models.CitraSummary) tabular.Dataset {
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"Course Code":    item.CourseCode,
			"Name":           item.Name,
			"Type":           item.CitraType,
			"Faculty":        item.Faculty,
			"Ratings":        strconv.Itoa(item.TotalRatings),
			"Avg Quality":    oneDecimal(item.AverageQuality),
			"Avg Difficulty": oneDecimal(item.AverageDifficulty),
			"Take Again %":   oneDecimal(item.TakeAgainPercentage),
			"Mode":           item.Mode,
		})
	}
	return tabular.Dataset{Headers: exportHeaders, Rows: rows}
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
