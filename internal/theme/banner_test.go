package theme

import (
	"bytes"
	"strings"
	"testing"
)

func TestBannerNamesTool(t *testing.T) {
	var buf bytes.Buffer
	FprintBanner(&buf)
	if !strings.Contains(buf.String(), "VECINDARIO") {
		t.Fatalf("banner missing name: %q", buf.String())
	}
}
