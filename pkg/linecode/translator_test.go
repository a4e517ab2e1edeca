package linecode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bustracker/bustracker/pkg/transit"
)

type fakeLineSource struct {
	lines []transit.Line
	err   error
	calls int
}

func (s *fakeLineSource) AllLines(ctx context.Context) ([]transit.Line, error) {
	s.calls++
	return s.lines, s.err
}

func writeLegacyMap(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestTranslateIdentityFallback(t *testing.T) {
	translator := NewTranslator(&fakeLineSource{}, time.Hour)

	if got := translator.Translate("unknown-code"); got != "unknown-code" {
		t.Errorf("unknown code should pass through unchanged, got %q", got)
	}
}

func TestLoadLegacyMap(t *testing.T) {
	path := writeLegacyMap(t, "internal;display\n4403;51\n9250;9250-A\n")

	translator := NewTranslator(&fakeLineSource{}, time.Hour)
	translator.LoadLegacyMap(path)

	if got := translator.Translate("4403"); got != "51" {
		t.Errorf("expected 4403 to translate to 51, got %q", got)
	}
	if got := translator.Translate("9250"); got != "9250-A" {
		t.Errorf("expected 9250 to translate to 9250-A, got %q", got)
	}
	if got := translator.Translate("7777"); got != "7777" {
		t.Errorf("unmapped code should fall through, got %q", got)
	}
}

func TestLoadLegacyMapMissingFileIsNonFatal(t *testing.T) {
	translator := NewTranslator(&fakeLineSource{}, time.Hour)
	translator.LoadLegacyMap("/does/not/exist.csv")

	if got := translator.Translate("4403"); got != "4403" {
		t.Errorf("missing file should leave identity translation, got %q", got)
	}
}

func TestRefreshBuildsTwoKeyMapping(t *testing.T) {
	source := &fakeLineSource{lines: []transit.Line{
		{ExternalID: "ROUTE-51", DisplayNumber: "51", Name: "Centro"},
	}}

	translator := NewTranslator(source, time.Hour)
	translator.RefreshIfStale(context.Background())

	if got := translator.Translate("ROUTE-51"); got != "51" {
		t.Errorf("external id should map to display number, got %q", got)
	}

	// Translation is idempotent for already canonical numbers
	if got := translator.Translate(translator.Translate("51")); got != "51" {
		t.Errorf("double translation of a canonical number should be stable, got %q", got)
	}
}

func TestRefreshFailureKeepsPreviousCache(t *testing.T) {
	source := &fakeLineSource{lines: []transit.Line{
		{ExternalID: "ROUTE-51", DisplayNumber: "51"},
	}}

	// Zero interval makes every call stale
	translator := NewTranslator(source, 0)
	translator.RefreshIfStale(context.Background())

	source.lines = nil
	source.err = errors.New("storage unavailable")
	translator.RefreshIfStale(context.Background())

	if got := translator.Translate("ROUTE-51"); got != "51" {
		t.Errorf("failed refresh should keep previous cache, got %q", got)
	}
}

func TestRefreshHonoursInterval(t *testing.T) {
	source := &fakeLineSource{lines: []transit.Line{
		{ExternalID: "ROUTE-51", DisplayNumber: "51"},
	}}

	translator := NewTranslator(source, time.Hour)
	translator.RefreshIfStale(context.Background())
	translator.RefreshIfStale(context.Background())

	if source.calls != 1 {
		t.Errorf("fresh cache should not refresh again, source called %d times", source.calls)
	}
}

func TestLegacyThenReferenceChain(t *testing.T) {
	path := writeLegacyMap(t, "internal;display\n840;ROUTE-51\n")

	source := &fakeLineSource{lines: []transit.Line{
		{ExternalID: "ROUTE-51", DisplayNumber: "51"},
	}}

	translator := NewTranslator(source, time.Hour)
	translator.LoadLegacyMap(path)
	translator.RefreshIfStale(context.Background())

	// Legacy maps 840 to ROUTE-51, the reference cache finishes the job
	if got := translator.Translate("840"); got != "51" {
		t.Errorf("expected chained translation to 51, got %q", got)
	}
}
