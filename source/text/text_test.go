package text

import (
	"strings"
	"testing"
)

func TestRedWrapsAndResetsColor(t *testing.T) {
	got := Red("boom")
	if !strings.HasPrefix(got, RED) || !strings.HasSuffix(got, RESET) {
		t.Fatalf("got %q", got)
	}
}

func TestEmphQuotes(t *testing.T) {
	if Emph("demo") != "'demo'" {
		t.Fatalf("got %q", Emph("demo"))
	}
}

func TestLogoContainsVersion(t *testing.T) {
	if !strings.Contains(Logo(), VERSION) {
		t.Fatalf("logo missing version: %q", Logo())
	}
}
