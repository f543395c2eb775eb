package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/pkg/export"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	GeneratedAt time.Time
}

// ExportService renders tables into downloadable files.
type ExportService struct {
	csv    export.Renderer
	pdf    export.Renderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the package defaults.
func NewExportService(csv, pdf export.Renderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render encodes table in the requested format. name becomes the filename prefix.
func (s *ExportService) Render(format export.Format, name string, table export.Table) (*ExportFile, error) {
	generatedAt := s.now().UTC()
	if table.Subtitle == "" {
		table.Subtitle = "Generated " + generatedAt.Format(time.RFC1123)
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		data, err = s.csv.Render(table)
	case export.FormatPDF:
		data, err = s.pdf.Render(table)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("rendered export", zap.String("name", name), zap.String("format", string(format)), zap.Int("rows", len(table.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", sanitizeFilename(name), generatedAt.Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
		GeneratedAt: generatedAt,
	}, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
