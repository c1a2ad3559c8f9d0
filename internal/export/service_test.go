package export

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/pipeline"
	"github.com/joseph-ayodele/policy-renamer/internal/resolver"
)

func sampleOutcomes() []pipeline.Outcome {
	return []pipeline.Outcome{
		{
			Path:     "/in/scan.pdf",
			Status:   constants.OutcomeRenamed,
			Category: constants.Policy,
			Metadata: entity.Metadata{InsuredName: "John_Doe", CompanyName: "Geico", Date: "01-25-2026", TypeDetail: "Doc"},
			Sources:  resolver.Sources{Name: "label", Date: "label", Company: "roster"},
			NewName:  "John_Doe_Geico_DEC_EFF_01-25-2026.pdf",
			Pages:    3,
			OCRPages: 1,
			Duration: 1500 * time.Millisecond,
		},
		{
			Path:     "/in/locked.pdf",
			Status:   constants.OutcomeFailed,
			Category: constants.Unknown,
			Metadata: entity.NewMetadata(),
			Err:      errors.New("rename: device busy"),
		},
	}
}

func TestExportOutcomesXLSX(t *testing.T) {
	data, err := NewService(nil).ExportOutcomesXLSX(context.Background(), uuid.New(), sampleOutcomes())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])

	assert.Equal(t, []string{
		"/in/scan.pdf", "RENAMED", "POLICY", "John_Doe", "Geico", "01-25-2026",
		"John_Doe_Geico_DEC_EFF_01-25-2026.pdf", "label", "label", "roster", "3", "1", "1500",
	}, rows[1])

	assert.Equal(t, "/in/locked.pdf", rows[2][0])
	assert.Equal(t, "FAILED", rows[2][1])
	assert.Equal(t, constants.DefaultInsured, rows[2][3])
	assert.Equal(t, "rename: device busy", rows[2][13])
}

func TestExportOutcomesXLSX_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(nil).ExportOutcomesXLSX(ctx, uuid.New(), sampleOutcomes())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.xlsx")
	require.NoError(t, NewService(nil).WriteFile(context.Background(), path, uuid.New(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "Zürich", truncate("Zürich", 6))

	got := truncate("ééééé", 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "éé…", got)
}
