package interview

import (
	"strings"
)

// questionPrefixCutset is the leading run stripped from a numbered or
// dashed question line to obtain the question body.
const questionPrefixCutset = "0123456789.- )"

// ParseQuestions extracts an ordered question list from raw model output.
//
// A line qualifies when, after trimming, it is non-empty and starts with a
// decimal digit or a dash. The leading numbering run is stripped to obtain
// the question body. When no line qualifies the whole raw text is returned
// as a single question: the model ignored the numbering instruction and a
// degraded interview beats a failed one.
//
// The function is pure and deterministic: no I/O, no side effects.
func ParseQuestions(raw string, max int) []string {
	var questions []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !isDigit(line[0]) && line[0] != '-' {
			continue
		}
		body := strings.TrimSpace(strings.TrimLeft(line, questionPrefixCutset))
		questions = append(questions, body)
	}

	if len(questions) == 0 {
		questions = []string{raw}
	}

	if max > 0 && len(questions) > max {
		questions = questions[:max]
	}
	return questions
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
