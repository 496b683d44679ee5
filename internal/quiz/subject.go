package quiz

import (
	"fmt"
	"strings"
)

// Subject is one of the exam subjects a quiz can be generated for.
type Subject string

const (
	SubjectMaths     Subject = "Maths"
	SubjectEnglish   Subject = "English"
	SubjectPhysics   Subject = "Physics"
	SubjectChemistry Subject = "Chemistry"
	SubjectBiology   Subject = "Biology"
)

var allSubjects = []Subject{
	SubjectMaths,
	SubjectEnglish,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
}

// AllSubjects returns the supported subjects in display order.
func AllSubjects() []Subject {
	out := make([]Subject, len(allSubjects))
	copy(out, allSubjects)
	return out
}

// Valid reports whether s is one of the supported subjects.
func (s Subject) Valid() bool {
	for _, known := range allSubjects {
		if s == known {
			return true
		}
	}
	return false
}

func (s Subject) String() string { return string(s) }

// ParseSubject matches name against the supported subjects, ignoring case
// and surrounding whitespace.
func ParseSubject(name string) (Subject, error) {
	name = strings.TrimSpace(name)
	for _, s := range allSubjects {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q (want one of %s)", name, subjectList())
}

func subjectList() string {
	names := make([]string, len(allSubjects))
	for i, s := range allSubjects {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
