package parser

import "strings"

// Section identifies which block of the duty-log sheet a row belongs to.
type Section int

const (
	SectionNone Section = iota
	SectionAdmission
	SectionDischarge
	SectionOp
	SectionEmergencyOp
	SectionER
)

func (s Section) String() string {
	switch s {
	case SectionAdmission:
		return "admission"
	case SectionDischarge:
		return "discharge"
	case SectionOp:
		return "operation"
	case SectionEmergencyOp:
		return "emergency_operation"
	case SectionER:
		return "emergency_room"
	default:
		return "none"
	}
}

// nextSection applies the header-keyword transition rules to the first
// cell of a row. Headers are written in English or Korean depending on
// who filled the sheet in; both spellings transition. A row that is not
// a header leaves the section unchanged.
func nextSection(current Section, firstCell string) Section {
	cell := strings.ToUpper(firstCell)
	switch {
	case strings.Contains(cell, "EMERGENCY ROOM"):
		return SectionER
	case strings.Contains(cell, "OPERATION") || strings.Contains(cell, "수술"):
		if strings.Contains(cell, "EMERGENCY") || strings.Contains(cell, "응급") {
			return SectionEmergencyOp
		}
		return SectionOp
	case strings.Contains(cell, "ADMISSION") || strings.Contains(cell, "입원"):
		return SectionAdmission
	case strings.Contains(cell, "DISCHARGE") || strings.Contains(cell, "퇴원"):
		return SectionDischarge
	default:
		return current
	}
}
