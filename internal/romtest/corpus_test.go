package romtest

import (
	"os"
	"testing"
)

// TestCorpus runs the full golden ROM corpus. It requires network access to
// fetch nes-test-roms on first run and is skipped unless NESTOR_ROM_TESTS is
// set, matching the teacher's own practice of gating its download-heavy
// test suite behind an opt-in rather than running it on every `go test`.
func TestCorpus(t *testing.T) {
	if os.Getenv("NESTOR_ROM_TESTS") == "" {
		t.Skip("set NESTOR_ROM_TESTS=1 to run the golden ROM corpus (downloads nes-test-roms)")
	}
	RunCorpus(t)
}
