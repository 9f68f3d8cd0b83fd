package model

import "fmt"

// Section is the class section a record is assigned to.
type Section string

const (
	SectionA Section = "A"
	SectionB Section = "B"
)

// ParseSection accepts only the two known sections.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionA, SectionB:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// StudentRecord is one entered roll number / marks / section triple.
type StudentRecord struct {
	RollNumber string  `json:"rollNumber"`
	Marks      string  `json:"marks"`
	Section    Section `json:"section"`
}

// FormState is the transient input of the entry form.
type FormState struct {
	Prefix  string  `json:"prefix"`
	Code    string  `json:"code"`
	Marks   string  `json:"marks"`
	Section Section `json:"section"`
}
