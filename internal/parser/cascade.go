package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecoverable marks model output that survived no cascade stage.
var ErrUnrecoverable = errors.New("parser: unrecoverable model output")

// Stage identifies which cascade stage produced a successful decode.
type Stage int

const (
	StageStrict Stage = iota
	StageFences
	StageBraces
	StageRepair
)

func (s Stage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageFences:
		return "fences"
	case StageBraces:
		return "braces"
	case StageRepair:
		return "repair"
	}
	return "unknown"
}

// ParseError reports a fully failed cascade. Attempt carries the last
// repair candidate so callers can persist it for diagnosis.
type ParseError struct {
	Attempt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: all stages failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return ErrUnrecoverable }

// Parse runs the cascade over raw and decodes the first candidate that
// is valid JSON. On failure it returns a *ParseError wrapping
// ErrUnrecoverable.
func Parse[T any](raw string) (*T, Stage, error) {
	var (
		lastErr     error
		lastAttempt string
	)
	seen := make(map[string]bool, 4)
	for stage, cand := range candidates(raw) {
		cand = strings.TrimSpace(cand)
		if cand == "" || seen[cand] {
			continue
		}
		seen[cand] = true
		var v T
		if err := json.Unmarshal([]byte(cand), &v); err != nil {
			lastErr, lastAttempt = err, cand
			continue
		}
		return &v, Stage(stage), nil
	}
	if lastErr == nil {
		lastErr = errors.New("empty input")
	}
	return nil, StageRepair, &ParseError{Attempt: lastAttempt, Err: lastErr}
}

// candidates builds the cascade's texts in attempt order. Each stage
// refines the previous stage's output rather than the raw text, so a
// fenced payload with a trailing comma still recovers at the last stage.
func candidates(raw string) []string {
	unfenced := StripFences(raw)
	extracted := ExtractObject(unfenced)
	return []string{raw, unfenced, extracted, RepairArtifacts(extracted)}
}

var (
	fenceOpen  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\r?\n?")
	fenceClose = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// StripFences removes a leading/trailing Markdown code fence,
// case-insensitively for the ```json language tag.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	t = fenceOpen.ReplaceAllString(t, "")
	t = fenceClose.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// ExtractObject returns the substring from the first '{' to its
// balanced matching '}'. The scan tracks string literals and escapes;
// when no balanced object exists the input is returned unchanged.
func ExtractObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}

var (
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	doubledComma  = regexp.MustCompile(`,\s*,`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// RepairArtifacts removes the comment and comma artifacts models
// commonly leave in JSON. Line comments are skipped on lines carrying
// "://" so URLs survive; comments inside string values on other lines
// are a documented best-effort casualty.
func RepairArtifacts(s string) string {
	s = blockComment.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if strings.Contains(ln, "://") {
			continue
		}
		if idx := strings.Index(ln, "//"); idx >= 0 {
			lines[i] = ln[:idx]
		}
	}
	s = strings.Join(lines, "\n")

	for {
		next := doubledComma.ReplaceAllString(s, ",")
		if next == s {
			break
		}
		s = next
	}
	for {
		next := trailingComma.ReplaceAllString(s, "$1")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}
