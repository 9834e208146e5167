package engine

import (
	"testing"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
)

func TestBuffCheckOnInterval(t *testing.T) {
	mock := detect.NewMock()
	calls := 0
	up := true
	mock.DetectBuffFunc = func(kind detect.BuffKind) bool {
		calls++
		return up
	}
	state := NewBuffState(detect.BuffRune)
	var buff Buff = BuffAbsent{}

	// The very first update checks the frame
	buff = updateBuff(mock, &state, buff)
	if calls != 1 {
		t.Fatalf("expected 1 detection on the first update, got %d", calls)
	}
	if _, ok := buff.(BuffPresent); !ok {
		t.Fatalf("expected present, got %T", buff)
	}

	// The rest of the interval coasts on the cached estimate
	for i := 1; i < int(constants.BuffCheckEveryTicks); i++ {
		buff = updateBuff(mock, &state, buff)
	}
	if calls != 1 {
		t.Fatalf("expected no detections inside the interval, got %d", calls)
	}
	if _, ok := buff.(BuffPresent); !ok {
		t.Fatalf("expected the estimate held, got %T", buff)
	}

	// The next interval boundary re-checks and sees the buff gone
	up = false
	buff = updateBuff(mock, &state, buff)
	if calls != 2 {
		t.Fatalf("expected a second detection at the boundary, got %d", calls)
	}
	if _, ok := buff.(BuffAbsent); !ok {
		t.Fatalf("expected absent after the re-check, got %T", buff)
	}
}
