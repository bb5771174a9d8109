package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestFromHTML(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	e := New(WithTimeout(time.Minute))
	if !e.Available() {
		t.Skip("no chromium binary on this machine")
	}
	out, err := e.FromHTML(context.Background(), "<h1>Declaration No: 42</h1>")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}
