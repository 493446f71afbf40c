package gauge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/zoobzio/capitan"
)

// Feed applies edits from w to one side of conv until the watcher closes or
// ctx is canceled.
//
// Each non-empty line is either "<value>" or "<value> <unit>". A unit is
// applied before the value. Lines that fail validation are reported through
// the FeedRejected signal and skipped. Feed returns ErrClosed if the
// converter closes first, and the watcher's read error, if it reports one,
// once its channel closes.
func Feed(ctx context.Context, w Watcher, conv *Converter, side Side) error {
	ch, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-ch:
			if !ok {
				if s, ok := w.(interface{ Err() error }); ok {
					return s.Err()
				}
				return nil
			}
			if err := applyLines(ctx, data, conv, side); err != nil {
				return err
			}
		}
	}
}

func applyLines(ctx context.Context, data []byte, conv *Converter, side Side) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := applyLine(line, conv, side)
		if errors.Is(err, ErrClosed) {
			return err
		}
		if err != nil {
			capitan.Emit(ctx, FeedRejected,
				KeyConverter.Field(conv.Name()),
				KeyValue.Field(line),
				KeyError.Field(err.Error()),
			)
		}
	}
	return sc.Err()
}

func applyLine(line string, conv *Converter, side Side) error {
	parts := strings.Fields(line)
	switch len(parts) {
	case 1:
		return conv.SetText(side, parts[0])
	case 2:
		if err := conv.SetUnit(side, UnitID(parts[1])); err != nil {
			return err
		}
		return conv.SetText(side, parts[0])
	default:
		return invalidInput("line", "expected \"<value> [unit]\"")
	}
}
