package parser

import "testing"

func TestNextSectionTransitions(t *testing.T) {
	cases := []struct {
		current  Section
		cell     string
		expected Section
	}{
		{SectionNone, "ADMISSION", SectionAdmission},
		{SectionNone, "admission list", SectionAdmission},
		{SectionNone, "입원", SectionAdmission},
		{SectionAdmission, "DISCHARGE", SectionDischarge},
		{SectionNone, "퇴원 환자", SectionDischarge},
		{SectionNone, "OPERATION", SectionOp},
		{SectionNone, "수술", SectionOp},
		{SectionOp, "EMERGENCY OPERATION", SectionEmergencyOp},
		{SectionNone, "응급 수술", SectionEmergencyOp},
		{SectionOp, "EMERGENCY ROOM", SectionER},
		{SectionAdmission, "1", SectionAdmission},
		{SectionER, "", SectionER},
		{SectionNone, "random note", SectionNone},
	}

	for _, tc := range cases {
		if got := nextSection(tc.current, tc.cell); got != tc.expected {
			t.Fatalf("nextSection(%v, %q) = %v, want %v", tc.current, tc.cell, got, tc.expected)
		}
	}
}

func TestSectionString(t *testing.T) {
	if SectionEmergencyOp.String() != "emergency_operation" {
		t.Fatalf("unexpected name: %s", SectionEmergencyOp)
	}
	if SectionNone.String() != "none" {
		t.Fatalf("unexpected name: %s", SectionNone)
	}
}
