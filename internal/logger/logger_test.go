package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		dev     bool
		wantErr bool
	}{
		{"", false, false},
		{"debug", true, false},
		{"warn", false, false},
		{"loud", false, true},
	}
	for _, tt := range tests {
		l, err := New(tt.level, tt.dev)
		if (err != nil) != tt.wantErr {
			t.Errorf("level %q: unexpected error state %v", tt.level, err)
			continue
		}
		if l != nil {
			_ = l.Sync()
		}
	}
}

func TestNew_LevelApplied(t *testing.T) {
	l, err := New("error", false)
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(-1) {
		t.Error("debug should be disabled at error level")
	}
}
