package performance

// SubjectAverage is the mean percentage over every record of one subject.
type SubjectAverage struct {
	Subject string
	Average int
	Quizzes int
}

// Report summarizes a performance history.
type Report struct {
	// Overall is the rounded mean of every record's percentage.
	Overall int

	// Quizzes is the number of records summarized.
	Quizzes int

	// Subjects lists per-subject averages in the order each subject first
	// appears in the history.
	Subjects []SubjectAverage
}

// Empty reports whether the history had no records.
func (r Report) Empty() bool { return r.Quizzes == 0 }

// AveragePercentage returns the average for subject, if it has any records.
func (r Report) AveragePercentage(subject string) (int, bool) {
	for _, s := range r.Subjects {
		if s.Subject == subject {
			return s.Average, true
		}
	}
	return 0, false
}

// Aggregate computes the report for history. Every call recomputes from the
// full history.
func Aggregate(history []Record) Report {
	report := Report{Quizzes: len(history), Subjects: []SubjectAverage{}}
	if len(history) == 0 {
		return report
	}

	type acc struct {
		total float64
		count int
	}
	var order []string
	bySubject := make(map[string]*acc)
	var overall float64

	for _, rec := range history {
		pct := rec.Percentage()
		overall += pct

		a, ok := bySubject[rec.Subject]
		if !ok {
			a = &acc{}
			bySubject[rec.Subject] = a
			order = append(order, rec.Subject)
		}
		a.total += pct
		a.count++
	}

	for _, subject := range order {
		a := bySubject[subject]
		report.Subjects = append(report.Subjects, SubjectAverage{
			Subject: subject,
			Average: Round(a.total / float64(a.count)),
			Quizzes: a.count,
		})
	}
	report.Overall = Round(overall / float64(len(history)))
	return report
}
