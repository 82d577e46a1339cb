package highscore

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxInitialsLength is the number of runes kept from a player's initials
const MaxInitialsLength = 3

var ErrInvalidEntry = errors.New("invalid high score entry")

// Entry is a single ranked result
type Entry struct {
	Initials string `json:"initials"`
	Score    int    `json:"score"`
}

// Table is ordered by descending score. Entries with equal scores keep the
// order they were inserted in.
type Table []Entry

// NewEntry normalises initials and checks the score
func NewEntry(initials string, score int) (Entry, error) {
	if score < 0 {
		return Entry{}, fmt.Errorf("%w: score cannot be negative, got %d", ErrInvalidEntry, score)
	}
	return Entry{Initials: NormalizeInitials(initials), Score: score}, nil
}

// NormalizeInitials trims whitespace and keeps at most MaxInitialsLength runes
func NormalizeInitials(initials string) string {
	initials = strings.TrimSpace(initials)
	if utf8.RuneCountInString(initials) <= MaxInitialsLength {
		return initials
	}
	return string([]rune(initials)[:MaxInitialsLength])
}

// Insert places entry before the first entry with a strictly lower score and
// returns the new table together with the entry's 1-based rank.
func (t Table) Insert(entry Entry) (Table, int) {
	idx := len(t)
	for i, e := range t {
		if e.Score < entry.Score {
			idx = i
			break
		}
	}

	out := make(Table, 0, len(t)+1)
	out = append(out, t[:idx]...)
	out = append(out, entry)
	out = append(out, t[idx:]...)
	return out, idx + 1
}

// Lines renders the table 1-indexed, one "1. AAA: 100" line per entry
func (t Table) Lines() []string {
	lines := make([]string, len(t))
	for i, e := range t {
		lines[i] = fmt.Sprintf("%d. %s: %d", i+1, e.Initials, e.Score)
	}
	return lines
}

// Top returns at most n entries from the head of the table
func (t Table) Top(n int) Table {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// Validate checks that the table is well formed
func (t Table) Validate() error {
	for i, e := range t {
		if e.Score < 0 {
			return fmt.Errorf("%w: entry %d has negative score %d", ErrInvalidEntry, i+1, e.Score)
		}
		if utf8.RuneCountInString(e.Initials) > MaxInitialsLength {
			return fmt.Errorf("%w: entry %d initials %q are too long", ErrInvalidEntry, i+1, e.Initials)
		}
		if i > 0 && t[i-1].Score < e.Score {
			return fmt.Errorf("%w: entry %d is out of order", ErrInvalidEntry, i+1)
		}
	}
	return nil
}
