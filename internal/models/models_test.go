package models

import "testing"

func TestStatusAdvances(t *testing.T) {
	tests := []struct {
		name string
		cur  string
		next string
		want bool
	}{
		{"sent to delivered", StatusSent, StatusDelivered, true},
		{"delivered to read", StatusDelivered, StatusRead, true},
		{"sent to read skips delivered", StatusSent, StatusRead, true},
		{"read back to sent", StatusRead, StatusSent, false},
		{"delivered back to sent", StatusDelivered, StatusSent, false},
		{"same status", StatusDelivered, StatusDelivered, false},
		{"received to delivered", StatusReceived, StatusDelivered, true},
		{"failed from sent", StatusSent, StatusFailed, true},
		{"failed from delivered", StatusDelivered, StatusFailed, true},
		{"failed from read", StatusRead, StatusFailed, false},
		{"failed twice", StatusFailed, StatusFailed, false},
		{"nothing after failed", StatusFailed, StatusDelivered, false},
		{"unknown next", StatusSent, "bounced", false},
		{"empty current", "", StatusSent, true},
		{"empty next", StatusSent, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusAdvances(tt.cur, tt.next); got != tt.want {
				t.Fatalf("StatusAdvances(%q, %q) = %v, want %v", tt.cur, tt.next, got, tt.want)
			}
		})
	}
}
