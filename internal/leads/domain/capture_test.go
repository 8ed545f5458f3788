package domain

import "testing"

func TestIsCaptureContextActive(t *testing.T) {
	cases := []struct {
		name   string
		flag   bool
		medium string
		want   bool
	}{
		{"explicit flag", true, "", true},
		{"field medium", false, CaptureMediumField, true},
		{"mall medium", false, CaptureMediumMall, true},
		{"flag and medium", true, CaptureMediumField, true},
		{"neither", false, "Web", false},
		{"empty medium", false, "", false},
		{"medium is case sensitive", false, "opc", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCaptureContextActive(tc.flag, tc.medium); got != tc.want {
				t.Errorf("IsCaptureContextActive(%v, %q) = %v, want %v", tc.flag, tc.medium, got, tc.want)
			}
		})
	}
}

func TestIsValidCaptureSpot(t *testing.T) {
	cases := []struct {
		spot string
		want bool
	}{
		{"", true},
		{CaptureSpotStreet, true},
		{CaptureSpotModule, true},
		{"calle", false},
		{"PLAZA", false},
	}

	for _, tc := range cases {
		if got := IsValidCaptureSpot(tc.spot); got != tc.want {
			t.Errorf("IsValidCaptureSpot(%q) = %v, want %v", tc.spot, got, tc.want)
		}
	}
}
