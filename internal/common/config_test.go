package common

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RENAMER_TUNING_FILE", "")
	t.Setenv("RENAMER_WORKERS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "pdftoppm", cfg.OCR.PdftoppmBin)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Batch.FileTimeout)
	assert.Equal(t, 256, cfg.Watch.QueueSize)
	assert.Equal(t, 3, cfg.Rename.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Rename.RetryBackoff)
	assert.Equal(t, DefaultTuning(), cfg.Tuning)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RENAMER_WORKERS", "4")
	t.Setenv("RENAMER_DRY_RUN", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OCR_DPI", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Rename.DryRun)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, 300, cfg.OCR.DPI, "unparseable values fall back to the default")
}

func TestLoadConfig_TuningFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte(`
spatial:
  anchor_similarity: 75
  band_pad: 8
company:
  roster: ["Acme Mutual", "Geico"]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("RENAMER_TUNING_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Tuning.Spatial.AnchorSimilarity)
	assert.Equal(t, 8.0, cfg.Tuning.Spatial.BandPad)
	assert.Equal(t, 20.0, cfg.Tuning.Spatial.WrapGap, "unset fields keep defaults")
	assert.Equal(t, []string{"Acme Mutual", "Geico"}, cfg.Tuning.Company.Roster)
	assert.Len(t, cfg.Tuning.Name.ColonKeys, 8)
}

func TestLoadConfig_MissingTuningFile(t *testing.T) {
	t.Setenv("RENAMER_TUNING_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR", ErrorCode(err))
}

func TestParseTuning_Invalid(t *testing.T) {
	_, err := ParseTuning([]byte("spatial: [not, a, map"))
	require.Error(t, err)

	tuning, err := ParseTuning([]byte("company:\n  min_score: 140\n"))
	require.NoError(t, err)
	cfg := &Config{
		OCR:    OCRConfig{PdftoppmBin: "pdftoppm", TesseractBin: "tesseract", DPI: 300},
		Batch:  BatchConfig{Workers: 1},
		Rename: RenameConfig{MaxAttempts: 3, MaxSuffix: 10},
		Tuning: tuning,
	}
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "company.min_score")
}

func TestDefaultTuning(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, 5, tuning.MaxPages)
	assert.Equal(t, 50, tuning.MinPageText)
	assert.Equal(t, 80, tuning.Spatial.AnchorSimilarity)
	assert.Len(t, tuning.Spatial.StopTerms, 16)
	assert.Len(t, tuning.Company.Roster, 30)
	assert.Equal(t, 85, tuning.Company.MinScore)
	assert.Equal(t, 200.0, tuning.Date.RightTolerance)
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRunID(context.Background(), "")
	assert.NotEmpty(t, RunIDFromContext(ctx))

	id := uuid.New()
	ctx = WithDocumentID(ctx, id)
	got, ok := DocumentIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = DocumentIDFromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, LoggerFrom(ctx, nil))
}

func TestAppError(t *testing.T) {
	err := WrapError(NewAppError("OCR_ERROR", "tesseract exited", ErrOCR), "page 2")
	assert.True(t, errors.Is(err, ErrOCR))
	assert.Equal(t, "OCR_ERROR", ErrorCode(err))
	assert.Equal(t, "page 2: OCR_ERROR: tesseract exited: ocr failed", err.Error())
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestValidator(t *testing.T) {
	v := NewValidator()
	v.Field("a", 0, Positive).Field("b", " ", Required).Field("c", 50, Percent)

	require.True(t, v.HasErrors())
	assert.Equal(t,
		"validation failed for field 'a' with value '0': must be > 0; "+
			"validation failed for field 'b' with value ' ': is required",
		v.ErrorMessage())
	assert.False(t, NewValidator().HasErrors())
	assert.Empty(t, NewValidator().ErrorMessage())
}

func TestParseTuning_Rules(t *testing.T) {
	tuning, err := ParseTuning([]byte(`
rules:
  - category: term sheet
    priority: 5
    keywords: ["term sheet", "letter of intent"]
  - category: Identity
    keywords: ["driver license"]
`))
	require.NoError(t, err)
	require.Len(t, tuning.Rules, 2)
	assert.Equal(t, RuleTuning{Category: "term sheet", Priority: 5, Keywords: []string{"term sheet", "letter of intent"}}, tuning.Rules[0])

	v := NewValidator()
	tuning.validate(v)
	assert.False(t, v.HasErrors(), v.ErrorMessage())
}

func TestParseTuning_BadRules(t *testing.T) {
	tuning, err := ParseTuning([]byte(`
rules:
  - category: brochure
    keywords: ["brochure"]
  - category: unknown
    keywords: ["misc"]
  - category: coi
`))
	require.NoError(t, err)

	v := NewValidator()
	tuning.validate(v)
	msg := v.ErrorMessage()
	assert.Contains(t, msg, "rules[0].category")
	assert.Contains(t, msg, "rules[1].category")
	assert.Contains(t, msg, "rules[2].keywords")
	assert.NotContains(t, msg, "rules[2].category")
}
