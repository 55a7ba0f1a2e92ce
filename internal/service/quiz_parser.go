package service

import (
	"fmt"
	"regexp"
	"strings"
)

const optionsPerQuestion = 4

// ParsedQuestion is a validated block: four distinct options and an answer
// that is one of them.
type ParsedQuestion struct {
	Text    string
	Options []string
	Answer  string
}

// Skipped records why a block was rejected. Block is 1-based.
type Skipped struct {
	Block  int
	Reason string
}

type ParseResult struct {
	Questions []ParsedQuestion
	Skipped   []Skipped
}

var (
	blockSeparator = regexp.MustCompile(`\n[ \t]*\n`)
	blockPattern   = regexp.MustCompile(`(?is)Q:\s*(.*?)\s*Options:\s*(.*?)\s*Answer:\s*(.*)`)
	// A), (c), 1) need no trailing space; b. and 2: do, so "1.5 m" is left alone.
	labelPrefix = regexp.MustCompile(`^(?:\(?([A-Da-d1-4])\)\s*|([A-Da-d1-4])[.:]\s+)`)
	bareLabel   = regexp.MustCompile(`^\(?([A-Da-d1-4])[).:]?$`)
)

// ParseQuestionBlocks splits model output on blank lines and parses each
// Q:/Options:/Answer: block. It never fails; bad blocks land in Skipped.
func ParseQuestionBlocks(raw string) ParseResult {
	var result ParseResult
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	n := 0
	for _, block := range blockSeparator.Split(normalized, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		n++
		q, reason := parseBlock(block)
		if reason != "" {
			result.Skipped = append(result.Skipped, Skipped{Block: n, Reason: reason})
			continue
		}
		result.Questions = append(result.Questions, q)
	}
	return result
}

func parseBlock(block string) (ParsedQuestion, string) {
	m := blockPattern.FindStringSubmatch(block)
	if m == nil {
		return ParsedQuestion{}, missingPart(block)
	}

	text := strings.TrimSpace(m[1])
	if text == "" {
		return ParsedQuestion{}, "empty question text"
	}
	options, labelled := splitOptions(m[2])
	if len(options) < optionsPerQuestion {
		return ParsedQuestion{}, fmt.Sprintf("only %d distinct options", len(options))
	}
	rawAnswer := strings.TrimSpace(strings.SplitN(m[3], "\n", 2)[0])
	if rawAnswer == "" {
		return ParsedQuestion{}, "empty answer"
	}
	answer, ok := resolveAnswer(rawAnswer, options, labelled)
	if !ok {
		return ParsedQuestion{}, fmt.Sprintf("answer %q does not match any option", rawAnswer)
	}
	return ParsedQuestion{Text: text, Options: options, Answer: answer}, ""
}

func missingPart(block string) string {
	lower := strings.ToLower(block)
	switch {
	case !strings.Contains(lower, "q:"):
		return "missing question"
	case !strings.Contains(lower, "options:"):
		return "missing options"
	case !strings.Contains(lower, "answer:"):
		return "missing answer"
	default:
		return "parts out of order"
	}
}

// splitOptions also reports whether any option carried a label.
func splitOptions(raw string) ([]string, bool) {
	seen := make(map[string]struct{}, optionsPerQuestion)
	out := make([]string, 0, optionsPerQuestion)
	labelled := false
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		opt := stripLabel(part)
		if opt != part {
			labelled = true
		}
		if opt == "" {
			continue
		}
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		out = append(out, opt)
		if len(out) == optionsPerQuestion {
			break
		}
	}
	return out, labelled
}

func stripLabel(s string) string {
	if loc := labelPrefix.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// resolveAnswer maps the answer to option text: exact match, then a label
// such as "B" or "B) text", then a case-insensitive match. Digit labels
// only count when the options themselves were labelled, so "4" never
// stands for the fourth of "1, 2, 3, 5".
func resolveAnswer(answer string, options []string, labelled bool) (string, bool) {
	for _, opt := range options {
		if opt == answer {
			return opt, true
		}
	}

	if m := bareLabel.FindStringSubmatch(answer); m != nil {
		if idx, ok := labelIndex(m[1], labelled); ok && idx < len(options) {
			return options[idx], true
		}
	}
	if m := labelPrefix.FindStringSubmatch(answer); m != nil {
		label := m[1]
		if label == "" {
			label = m[2]
		}
		if idx, ok := labelIndex(label, labelled); ok && idx < len(options) {
			return options[idx], true
		}
	}

	stripped := stripLabel(answer)
	for _, opt := range options {
		if strings.EqualFold(opt, stripped) {
			return opt, true
		}
	}
	return "", false
}

func labelIndex(label string, allowDigits bool) (int, bool) {
	if len(label) != 1 {
		return 0, false
	}
	c := label[0]
	switch {
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	case allowDigits && c >= '1' && c <= '4':
		return int(c - '1'), true
	}
	return 0, false
}
