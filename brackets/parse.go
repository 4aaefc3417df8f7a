package brackets

import (
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-system/models"
)

// ParseReport is the outcome of parsing pasted spreadsheet rows. Rows fail
// independently: Results holds every well-formed row even when others did
// not parse. Tie detection is not a parse concern; a well-formed "2-2" row
// parses cleanly and is rejected later by the submission contract.
type ParseReport struct {
	Results []models.MatchResult `json:"results"`
	Errors  []ParseError         `json:"errors,omitempty"`
}

// ParseResultLines parses rows of the form "<p1> vs <p2> = <s1>-<s2>", one
// per line. Blank lines are skipped. Line numbers in errors are 1-based and
// count every input line, blank or not.
func ParseResultLines(text string) ParseReport {
	var report ParseReport

	for i, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		res, reason := parseResultLine(line)
		if reason != "" {
			report.Errors = append(report.Errors, ParseError{Line: i + 1, Text: line, Reason: reason})
			continue
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func parseResultLine(line string) (models.MatchResult, string) {
	var zero models.MatchResult

	sides := strings.Split(line, "=")
	if len(sides) != 2 {
		return zero, `expected exactly one "="`
	}

	players := strings.Split(sides[0], "vs")
	if len(players) != 2 {
		return zero, `expected exactly one "vs" before the "="`
	}

	scores := strings.Split(sides[1], "-")
	if len(scores) != 2 {
		return zero, `expected exactly one "-" between the scores`
	}

	p1 := strings.TrimSpace(players[0])
	p2 := strings.TrimSpace(players[1])
	if p1 == "" || p2 == "" {
		return zero, "player names must not be empty"
	}

	s1, err := strconv.Atoi(strings.TrimSpace(scores[0]))
	if err != nil {
		return zero, "first score is not an integer"
	}
	s2, err := strconv.Atoi(strings.TrimSpace(scores[1]))
	if err != nil {
		return zero, "second score is not an integer"
	}

	return models.MatchResult{PlayerA: p1, PlayerB: p2, ScoreA: s1, ScoreB: s2}, ""
}
