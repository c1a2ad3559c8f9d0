package ocr

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

type call struct {
	name string
	args []string
}

// stubRunner fakes pdftoppm by writing the expected PNG and returns canned
// tesseract output.
type stubRunner struct {
	calls     []call
	tessOut   string
	tessErr   error
	renderErr error
	noImage   bool
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	switch name {
	case "pdftoppm":
		if s.renderErr != nil {
			return nil, []byte("Syntax Error: broken xref"), s.renderErr
		}
		if !s.noImage {
			if err := os.WriteFile(args[len(args)-1]+".png", []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if s.tessErr != nil {
			return nil, []byte("Error opening data file"), s.tessErr
		}
		return []byte(s.tessOut), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func (s *stubRunner) argsOf(name string) []string {
	for _, c := range s.calls {
		if c.name == name {
			return c.args
		}
	}
	return nil
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t2550\t3300\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t300\t300\t900\t50\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t300\t300\t200\t50\t96.5\tNamed\n" +
	"5\t1\t1\t1\t1\t2\t525\t300\t250\t50\t93.5\tInsured:\n" +
	"5\t1\t1\t1\t1\t3\t800\t300\t150\t50\t90\tJohn\n" +
	"5\t1\t1\t1\t2\t1\t300\t375\t150\t50\t80\tDoe\n" +
	"5\t1\t1\t1\t2\t2\t460\t375\t10\t50\t-1\t \n"

func TestParseTSV(t *testing.T) {
	res := parseTSV([]byte(sampleTSV), 72.0/300)

	require.Len(t, res.Words, 4)
	assert.Equal(t, "Named Insured: John\nDoe", res.Text)
	assert.InDelta(t, 72.0, res.Words[0].Box.Left, 1e-9)
	assert.InDelta(t, 72.0, res.Words[0].Box.Top, 1e-9)
	assert.InDelta(t, 120.0, res.Words[0].Box.Right, 1e-9)
	assert.InDelta(t, 84.0, res.Words[0].Box.Bottom, 1e-9)
	assert.InDelta(t, 0.9, res.Confidence, 1e-6)
}

func TestParseTSV_Garbage(t *testing.T) {
	res := parseTSV([]byte("header\nnot\ta\tvalid\trow\n5\t1\t1\t1\t1\t1\tx\ty\tz\tw\t90\tBad\n"), 1)
	assert.Empty(t, res.Words)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.Confidence)
}

func TestRecognizePage(t *testing.T) {
	r := &stubRunner{tessOut: sampleTSV}
	e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(r))

	page, err := e.RecognizePage(context.Background(), "/docs/scan.pdf", 2, 612, 792)
	require.NoError(t, err)

	assert.True(t, page.OCR)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 612.0, page.Width)
	assert.Equal(t, "Named Insured: John\nDoe", page.Text)
	assert.Len(t, page.Words, 4)

	pp := r.argsOf("pdftoppm")
	assert.Equal(t, []string{"-r", "300", "-f", "2", "-l", "2"}, pp[:6])
	assert.Contains(t, pp, "-singlefile")
	assert.Equal(t, "/docs/scan.pdf", pp[len(pp)-2])
	targs := r.argsOf("tesseract")
	assert.Equal(t, "tsv", targs[len(targs)-1])
}

func TestRecognizeRegion(t *testing.T) {
	r := &stubRunner{tessOut: "  Acme Holdings LLC \n\f"}
	e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(r))

	page := entity.Page{Number: 1, Width: 612, Height: 792}
	got, err := e.RecognizeRegion(context.Background(), "/docs/a.pdf", page, entity.Rect{Left: 72, Top: 100, Right: 172, Bottom: 112})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings LLC", got)

	pp := r.argsOf("pdftoppm")
	assert.Equal(t, []string{"-r", "300", "-f", "1", "-l", "1", "-x", "300", "-y", "416", "-W", "417", "-H", "50"}, pp[:14])
	assert.Contains(t, r.argsOf("tesseract"), "7")

	_, err = e.RecognizeRegion(context.Background(), "/docs/a.pdf", page, entity.Rect{Left: 10, Right: 10})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRecognize_Failures(t *testing.T) {
	t.Run("render error", func(t *testing.T) {
		e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(&stubRunner{renderErr: errors.New("exit 1")}))
		_, err := e.RecognizePage(context.Background(), "/x.pdf", 1, 612, 792)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrOCR)
		assert.Equal(t, "OCR_ERROR", common.ErrorCode(err))
		assert.Contains(t, err.Error(), "broken xref")
	})

	t.Run("no image", func(t *testing.T) {
		e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(&stubRunner{noImage: true}))
		_, err := e.RecognizePage(context.Background(), "/x.pdf", 1, 612, 792)
		assert.ErrorIs(t, err, common.ErrOCR)
	})

	t.Run("tesseract error", func(t *testing.T) {
		e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(&stubRunner{tessErr: errors.New("exit 1")}))
		_, err := e.RecognizeRegion(context.Background(), "/x.pdf", region.page, region.rect)
		assert.ErrorIs(t, err, common.ErrOCR)
	})

	t.Run("blank region", func(t *testing.T) {
		e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(&stubRunner{tessOut: " \n-----\n\f"}))
		got, err := e.RecognizeRegion(context.Background(), "/x.pdf", region.page, region.rect)
		assert.ErrorIs(t, err, common.ErrOCR)
		assert.Equal(t, "OCR_ERROR", common.ErrorCode(err))
		assert.Empty(t, got)
	})

	t.Run("blank page", func(t *testing.T) {
		e := NewExtractor(Config{WorkDir: t.TempDir()}, nil, WithRunner(&stubRunner{tessOut: "level\tpage_num\n"}))
		_, err := e.RecognizePage(context.Background(), "/x.pdf", 1, 612, 792)
		assert.ErrorIs(t, err, common.ErrOCR)
	})
}

var region = struct {
	page entity.Page
	rect entity.Rect
}{
	page: entity.Page{Number: 1, Width: 612, Height: 792},
	rect: entity.Rect{Left: 72, Top: 100, Right: 172, Bottom: 112},
}

func TestRecognizeRegion_Cleanup(t *testing.T) {
	r := &stubRunner{tessOut: "Acme   Mutual\t LLC\r\n-----\n"}
	e := NewExtractor(Config{WorkDir: t.TempDir(), TessdataDir: "/td"}, nil, WithRunner(r))

	got, err := e.RecognizeRegion(context.Background(), "/x.pdf", region.page, region.rect)
	require.NoError(t, err)
	assert.Equal(t, "Acme Mutual LLC", got)
	args := r.argsOf("tesseract")
	assert.Equal(t, []string{"stdout", "-l", "eng", "--psm", "7", "--tessdata-dir", "/td"}, args[1:])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a b\nc", Normalize("  a   b  \r\nc\n\n\n"))
	assert.Equal(t, "Date 01/25/2026", Normalize("Date 01/25/2026"), "digits are left alone")
}
