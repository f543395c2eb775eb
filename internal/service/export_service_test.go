package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Table) ([]byte, error) { return nil, errors.New("boom") }

func newExportServiceForTest() *ExportService {
	svc := NewExportService(nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC) }
	return svc
}

func leaderboardTable() export.Table {
	return export.Table{
		Title:   "Tetris Leaderboard",
		Headers: []string{"Rank", "Player", "Score"},
		Rows:    [][]string{{"1", "Senne", "9000"}},
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.Render(export.FormatCSV, "Leaderboard Tetris", leaderboardTable())
	require.NoError(t, err)
	assert.Equal(t, "leaderboard_tetris_20260302_103000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "Rank,Player,Score\n"))
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.Render(export.FormatPDF, "leaderboard", leaderboardTable())
	require.NoError(t, err)
	assert.Equal(t, "leaderboard_20260302_103000.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}

func TestExportServiceRendererError(t *testing.T) {
	svc := NewExportService(failingRenderer{}, nil, nil)
	_, err := svc.Render(export.FormatCSV, "x", leaderboardTable())
	assert.Error(t, err)

	_, err = svc.Render(export.Format("xlsx"), "x", leaderboardTable())
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "export", sanitizeFilename(""))
	assert.Equal(t, "pac-man_scores", sanitizeFilename("Pac-Man Scores"))
	assert.Equal(t, "a-b", sanitizeFilename("a/b"))
}
