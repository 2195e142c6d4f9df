package model

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"down", DirectionDown, false},
		{"up", DirectionUp, false},
		{"left", DirectionLeft, false},
		{"right", DirectionRight, false},
		{"Down", DirectionDown, false},
		{"  RIGHT ", DirectionRight, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q): error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirectionOrientation(t *testing.T) {
	if !DirectionLeft.Horizontal() || !DirectionRight.Horizontal() {
		t.Error("left/right should be horizontal splits")
	}
	if DirectionUp.Horizontal() || DirectionDown.Horizontal() {
		t.Error("up/down should be vertical splits")
	}
	if !DirectionUp.Before() || !DirectionLeft.Before() {
		t.Error("up/left should place the new pane before the invoker")
	}
	if DirectionDown.Before() || DirectionRight.Before() {
		t.Error("down/right should place the new pane after the invoker")
	}
}
