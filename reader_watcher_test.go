package gauge

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/zoobzio/clockz"
)

func TestReaderWatcher_EmitsLines(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	w := NewReaderWatcher(strings.NewReader("1\r\n2.5 bar\n\n3"))
	out, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	var got []string
	for v := range out {
		got = append(got, string(v))
	}
	exp := []string{"1", "2.5 bar", "", "3"}
	if strings.Join(got, "|") != strings.Join(exp, "|") {
		t.Errorf("expected %q, got %q", exp, got)
	}
	if w.Err() != nil {
		t.Errorf("expected clean end of input, got %v", w.Err())
	}
}

func TestReaderWatcher_ClosesOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	out, err := NewReaderWatcher(pr).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	go func() { _, _ = pw.Write([]byte("1\n2\n")) }()
	select {
	case v := <-out:
		if string(v) != "1" {
			t.Fatalf("expected 1, got %s", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for first line")
	}

	cancel()
	pw.Close()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for close")
		}
	}
}

func TestFeed_ReportsReadError(t *testing.T) {
	c := newTestConverter(t, &stubProvider{}, clockz.NewFakeClock())
	boom := errors.New("device unplugged")
	source := io.MultiReader(strings.NewReader("4 psi\n"), iotest.ErrReader(boom))

	err := Feed(context.Background(), NewReaderWatcher(source), c, Primary)
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if f := c.Field(Primary); f.Text != "4" || f.Unit != "psi" {
		t.Errorf("lines before the error should apply, got %+v", f)
	}
}
