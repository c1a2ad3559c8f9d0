package spatial

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

func word(text string, left, top, right, bottom float64) entity.Word {
	return entity.Word{Text: text, Box: entity.Rect{Left: left, Top: top, Right: right, Bottom: bottom}, FontSize: 12}
}

func doc(words ...entity.Word) entity.Document {
	return entity.Document{
		Path:  "/tmp/in.pdf",
		Pages: []entity.Page{{Number: 1, Width: 600, Height: 800, Words: words}},
	}
}

type fakeRegions struct {
	text  string
	err   error
	calls []entity.Rect
}

func (f *fakeRegions) RecognizeRegion(_ context.Context, _ string, _ entity.Page, r entity.Rect) (string, error) {
	f.calls = append(f.calls, r)
	return f.text, f.err
}

func newLocator(ocr RegionRecognizer) *Locator {
	return NewLocator(nil, common.DefaultTuning().Spatial, ocr)
}

func rightQuery(keywords ...string) Query {
	return Query{Keywords: keywords, Direction: Right, XTolerance: 200}
}

func TestLocate_MultilineRight(t *testing.T) {
	d := doc(
		word("Named", 10, 100, 50, 112),
		word("Insured:", 55, 100, 100, 112),
		word("The", 110, 100, 140, 112),
		word("Big", 145, 100, 170, 112),
		word("Company", 110, 115, 160, 127),
		word("Inc", 165, 115, 190, 127),
		word("Address:", 10, 140, 60, 152),
	)

	got, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("named insured:"))
	require.True(t, ok)
	assert.Equal(t, "The Big Company Inc", got)
}

func TestLocate_FuzzyAnchor(t *testing.T) {
	d := doc(
		word("Namcd", 10, 100, 50, 112),
		word("lnsured:", 55, 100, 100, 112),
		word("Jane", 110, 100, 140, 112),
		word("Smith", 145, 100, 180, 112),
	)
	got, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("named insured:"))
	require.True(t, ok)
	assert.Equal(t, "Jane Smith", got)

	unrelated := doc(
		word("Premium", 10, 100, 50, 112),
		word("Total:", 55, 100, 100, 112),
		word("Jane", 110, 100, 140, 112),
	)
	_, ok = newLocator(nil).Locate(context.Background(), unrelated, rightQuery("named insured:"))
	assert.False(t, ok)
}

func TestLocate_JunkLineTruncated(t *testing.T) {
	d := doc(
		word("Named", 10, 100, 50, 112),
		word("Insured:", 55, 100, 100, 112),
		word("John", 110, 100, 140, 112),
		word("Doe", 145, 100, 170, 112),
		word("_:_", 110, 115, 130, 127),
		word("0635201924", 135, 115, 180, 127),
		word("_:_", 185, 115, 200, 127),
		word("$1,491.00", 205, 115, 250, 127),
	)
	got, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("named insured:"))
	require.True(t, ok)
	assert.Equal(t, "John Doe", got)
	assert.NotContains(t, got, "$")
}

func TestLocate_NamePunctuationKept(t *testing.T) {
	d := doc(
		word("Insured:", 10, 100, 60, 112),
		word("Smith", 70, 100, 110, 112),
		word("-", 115, 100, 120, 112),
		word("Jones", 125, 100, 165, 112),
		word("&", 170, 100, 178, 112),
		word("O'Neil-Park", 183, 100, 250, 112),
		word("|", 255, 100, 258, 112),
		word("Ltd", 263, 100, 290, 112),
	)
	got, ok := newLocator(nil).Locate(context.Background(), d, Query{Keywords: []string{"insured:"}, Direction: Right, XTolerance: 300})
	require.True(t, ok)
	assert.Equal(t, "Smith - Jones & O'Neil-Park", got)
}

func TestLocate_StopTermEndsValue(t *testing.T) {
	d := doc(
		word("Insured:", 10, 100, 60, 112),
		word("Acme", 70, 100, 110, 112),
		word("Holdings", 115, 100, 170, 112),
		word("Policy", 180, 100, 220, 112),
		word("Number:", 225, 100, 280, 112),
		word("HX-1", 285, 100, 320, 112),
	)
	got, ok := newLocator(nil).Locate(context.Background(), d, Query{Keywords: []string{"insured:"}, Direction: Right, XTolerance: 300})
	require.True(t, ok)
	assert.Equal(t, "Acme Holdings", got)
}

func TestLocate_Below(t *testing.T) {
	d := doc(
		word("Named", 40, 100, 80, 112),
		word("Insured", 85, 100, 130, 112),
		word("Far", 400, 120, 430, 132),
		word("Mary", 35, 120, 70, 132),
		word("Jones", 75, 120, 115, 132),
		word("Later", 40, 200, 80, 212),
	)
	got, ok := newLocator(nil).Locate(context.Background(), d, Query{Keywords: []string{"named insured"}, Direction: Below, YTolerance: 25})
	require.True(t, ok)
	assert.Equal(t, "Mary Jones", got)
}

func TestLocate_ShortValueRejected(t *testing.T) {
	d := doc(
		word("Insured:", 10, 100, 60, 112),
		word("JD", 70, 100, 90, 112),
	)
	_, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("insured:"))
	assert.False(t, ok)
}

func TestLocate_FirstPageWins(t *testing.T) {
	d := entity.Document{Pages: []entity.Page{
		{Number: 1, Width: 600, Height: 800, Words: []entity.Word{word("Nothing", 10, 10, 60, 22)}},
		{Number: 2, Width: 600, Height: 800, Words: []entity.Word{word("Insured:", 10, 100, 60, 112), word("Page", 70, 100, 100, 112), word("Two", 105, 100, 130, 112)}},
		{Number: 3, Width: 600, Height: 800, Words: []entity.Word{word("Insured:", 10, 100, 60, 112), word("Page", 70, 100, 100, 112), word("Three", 105, 100, 140, 112)}},
	}}
	// "Page" is a stop term on both pages
	_, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("insured:"))
	assert.False(t, ok)

	d.Pages[1].Words[1].Text = "Ann"
	got, ok := newLocator(nil).Locate(context.Background(), d, rightQuery("insured:"))
	require.True(t, ok)
	assert.Equal(t, "Ann Two", got)
}

func TestLocate_ZoneOCR(t *testing.T) {
	d := doc(
		word("Insured:", 10, 100, 60, 112),
		word("Other", 10, 300, 60, 312),
	)

	t.Run("recovers value", func(t *testing.T) {
		ocr := &fakeRegions{text: " Acme Holdings \n"}
		q := rightQuery("insured:")
		q.ZoneOCR = true
		got, ok := newLocator(ocr).Locate(context.Background(), d, q)
		require.True(t, ok)
		assert.Equal(t, "Acme Holdings", got)
		require.Len(t, ocr.calls, 1)
		assert.Equal(t, entity.Rect{Left: 60, Top: 95, Right: 460, Bottom: 117}, ocr.calls[0])
	})

	t.Run("clipped to page", func(t *testing.T) {
		ocr := &fakeRegions{text: "Acme"}
		wide := doc(word("Insured:", 500, 2, 560, 12))
		q := rightQuery("insured:")
		q.ZoneOCR = true
		_, ok := newLocator(ocr).Locate(context.Background(), wide, q)
		require.True(t, ok)
		assert.Equal(t, entity.Rect{Left: 560, Top: 0, Right: 600, Bottom: 17}, ocr.calls[0])
	})

	t.Run("stop term rejected", func(t *testing.T) {
		q := rightQuery("insured:")
		q.ZoneOCR = true
		_, ok := newLocator(&fakeRegions{text: "Date 01/01/2025"}).Locate(context.Background(), d, q)
		assert.False(t, ok)
	})

	t.Run("ocr error", func(t *testing.T) {
		q := rightQuery("insured:")
		q.ZoneOCR = true
		_, ok := newLocator(&fakeRegions{err: errors.New("tesseract missing")}).Locate(context.Background(), d, q)
		assert.False(t, ok)
	})

	t.Run("disabled for below and when not requested", func(t *testing.T) {
		ocr := &fakeRegions{text: "Acme"}
		_, ok := newLocator(ocr).Locate(context.Background(), d, rightQuery("insured:"))
		assert.False(t, ok)
		_, ok = newLocator(ocr).Locate(context.Background(), d, Query{Keywords: []string{"insured:"}, Direction: Below, YTolerance: 25, ZoneOCR: true})
		assert.False(t, ok)
		assert.Empty(t, ocr.calls)
	})
}

func TestLocate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := doc(word("Insured:", 10, 100, 60, 112), word("Jane", 70, 100, 100, 112), word("Doe", 105, 100, 130, 112))
	_, ok := newLocator(nil).Locate(ctx, d, rightQuery("insured:"))
	assert.False(t, ok)
}
