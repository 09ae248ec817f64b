package app

import "testing"

func TestStatusApply(t *testing.T) {
	tests := []struct {
		from Status
		ev   Event
		want Status
		ok   bool
	}{
		{StatusIdle, EventStart, StatusPending, true},
		{StatusPending, EventStart, StatusPending, true},
		{StatusPending, EventSucceed, StatusSuccess, true},
		{StatusPending, EventFail, StatusError, true},
		{StatusSuccess, EventReset, StatusIdle, true},
		{StatusError, EventReset, StatusIdle, true},
		{StatusSuccess, EventStart, StatusPending, true},
		{StatusIdle, EventSucceed, StatusIdle, false},
		{StatusIdle, EventFail, StatusIdle, false},
		{StatusIdle, EventReset, StatusIdle, false},
		{StatusPending, EventReset, StatusPending, false},
		{StatusSuccess, EventFail, StatusSuccess, false},
	}
	for _, tc := range tests {
		got, ok := tc.from.Apply(tc.ev)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s --%s--> %s (%v), want %s (%v)", tc.from, tc.ev, got, ok, tc.want, tc.ok)
		}
	}
}
