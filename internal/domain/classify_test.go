package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthCategory(t *testing.T) {
	tests := []struct {
		name     string
		depth    float64
		expected string
	}{
		{"shallow", 10, "Shallow"},
		{"boundary 70 is shallow", 70.0, "Shallow"},
		{"just past 70 is intermediate", 70.1, "Intermediate"},
		{"boundary 300 is intermediate", 300.0, "Intermediate"},
		{"deep", 650, "Deep"},
		{"boundary 700 is deep", 700.0, "Deep"},
		{"beyond taxonomy", 701, ""},
		{"zero depth unlabeled", 0, ""},
		{"negative depth unlabeled", -1.2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DepthCategory(tt.depth))
		})
	}
}

func TestMagCategory(t *testing.T) {
	tests := []struct {
		name     string
		mag      float64
		expected string
	}{
		{"negative magnitude is micro", -0.5, "Micro"},
		{"boundary 2.0 is micro", 2.0, "Micro"},
		{"3.9 is minor", 3.9, "Minor"},
		{"4.0 is light", 4.0, "Light"},
		{"5.5 is moderate", 5.5, "Moderate"},
		{"6.8 is strong", 6.8, "Strong"},
		{"7.9 is major", 7.9, "Major"},
		{"8.0 is great", 8.0, "Great"},
		{"9.5 is great", 9.5, "Great"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MagCategory(tt.mag))
		})
	}
}

func TestFullAlertLevel(t *testing.T) {
	event := func(tsunami int, mag float64, alert string) QuakeEvent {
		return QuakeEvent{TsunamiWarning: tsunami, Magnitude: &mag, AlertLevel: alert}
	}

	tests := []struct {
		name     string
		event    QuakeEvent
		expected string
	}{
		{"tsunami and strong magnitude", event(1, 6.5, "unknown"), "Severe Tsunami Risk"},
		{"tsunami M7 short-circuits before major", event(1, 7.0, "red"), "Severe Tsunami Risk"},
		{"tsunami with small magnitude", event(1, 4.2, "unknown"), "Tsunami Warning"},
		{"major earthquake", event(0, 7.3, "unknown"), "Major Earthquake"},
		{"strong earthquake", event(0, 6.0, "unknown"), "Strong Earthquake"},
		{"orange alert", event(0, 5.1, "orange"), "Significant Alert"},
		{"red alert", event(0, 5.1, "red"), "Significant Alert"},
		{"green alert", event(0, 3.0, "green"), "Moderate Alert"},
		{"yellow alert", event(0, 3.0, "yellow"), "Moderate Alert"},
		{"nothing notable", event(0, 2.1, "unknown"), "No Alert"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FullAlertLevel(tt.event))
		})
	}

	t.Run("nil magnitude treated as zero", func(t *testing.T) {
		e := QuakeEvent{TsunamiWarning: 0, AlertLevel: "unknown"}
		assert.Equal(t, "No Alert", FullAlertLevel(e))
	})
}
