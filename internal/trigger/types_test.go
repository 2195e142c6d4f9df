package trigger

import (
	"testing"
	"time"
)

func TestTriggerValidate(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name    string
		trig    Trigger
		wantErr bool
	}{
		{"valid", Trigger{PaneID: 3, TabID: 1, TS: now}, false},
		{"valid with id", Trigger{ID: "abc", PaneID: 0, TabID: 0, TS: now}, false},
		{"negative pane", Trigger{PaneID: -1, TabID: 1, TS: now}, true},
		{"negative tab", Trigger{PaneID: 1, TabID: -2, TS: now}, true},
		{"zero timestamp", Trigger{PaneID: 1, TabID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trig.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
