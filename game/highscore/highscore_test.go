package highscore

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestTable_Insert(t *testing.T) {
	tests := []struct {
		name     string
		table    Table
		entry    Entry
		expected Table
		rank     int
	}{
		{
			name:     "empty table",
			table:    Table{},
			entry:    Entry{"NEW", 10},
			expected: Table{{"NEW", 10}},
			rank:     1,
		},
		{
			name:     "middle",
			table:    Table{{"AAA", 100}, {"BBB", 40}},
			entry:    Entry{"NEW", 50},
			expected: Table{{"AAA", 100}, {"NEW", 50}, {"BBB", 40}},
			rank:     2,
		},
		{
			name:     "tie goes after existing",
			table:    Table{{"AAA", 100}},
			entry:    Entry{"NEW", 100},
			expected: Table{{"AAA", 100}, {"NEW", 100}},
			rank:     2,
		},
		{
			name:     "tie among several",
			table:    Table{{"AAA", 100}, {"BBB", 70}, {"CCC", 70}, {"DDD", 10}},
			entry:    Entry{"NEW", 70},
			expected: Table{{"AAA", 100}, {"BBB", 70}, {"CCC", 70}, {"NEW", 70}, {"DDD", 10}},
			rank:     4,
		},
		{
			name:     "new best",
			table:    Table{{"AAA", 100}},
			entry:    Entry{"NEW", 101},
			expected: Table{{"NEW", 101}, {"AAA", 100}},
			rank:     1,
		},
		{
			name:     "last",
			table:    Table{{"AAA", 100}, {"BBB", 40}},
			entry:    Entry{"NEW", 0},
			expected: Table{{"AAA", 100}, {"BBB", 40}, {"NEW", 0}},
			rank:     3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			original := make(Table, len(test.table))
			copy(original, test.table)

			got, rank := test.table.Insert(test.entry)
			if !reflect.DeepEqual(got, test.expected) {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
			if rank != test.rank {
				t.Errorf("Expected rank %d, got %d", test.rank, rank)
			}
			if !reflect.DeepEqual(test.table, original) {
				t.Errorf("Insert modified the receiver: %v", test.table)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Result should validate: %v", err)
			}
		})
	}
}

func TestTable_Lines(t *testing.T) {
	table := Table{{"AAA", 100}, {"NEW", 50}}
	expected := []string{"1. AAA: 100", "2. NEW: 50"}
	if got := table.Lines(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got := table.Top(1); len(got) != 1 || got[0].Initials != "AAA" {
		t.Errorf("Top(1) returned %v", got)
	}
}

func TestNewEntry(t *testing.T) {
	tests := []struct {
		initials string
		expected string
	}{
		{"abc", "abc"},
		{"  XY ", "XY"},
		{"ABCDEF", "ABC"},
		{"ÄÖÜß", "ÄÖÜ"},
		{"", ""},
	}
	for _, test := range tests {
		entry, err := NewEntry(test.initials, 5)
		if err != nil {
			t.Fatalf("NewEntry(%q): %v", test.initials, err)
		}
		if entry.Initials != test.expected {
			t.Errorf("NewEntry(%q): expected %q, got %q", test.initials, test.expected, entry.Initials)
		}
	}

	long := strings.Repeat("Z", MaxInitialsLength+4)
	if got := utf8.RuneCountInString(NormalizeInitials(long)); got != MaxInitialsLength {
		t.Errorf("Expected initials cut to %d runes, got %d", MaxInitialsLength, got)
	}

	if _, err := NewEntry("AAA", -1); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry for negative score, got %v", err)
	}
}

func TestTable_Validate(t *testing.T) {
	if err := (Table{{"AAA", 10}, {"BBB", 20}}).Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected out of order error, got %v", err)
	}
	if err := (Table{{"ABCD", 10}}).Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected long initials error, got %v", err)
	}
}

// storeFactories lets every backend run the same tests
var storeFactories = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		return NewFileStore(filepath.Join(t.TempDir(), "scores", "highscore.json"))
	},
	"bolt": func(t *testing.T) Store {
		store, err := OpenBoltStore(filepath.Join(t.TempDir(), "highscore.db"))
		if err != nil {
			t.Fatalf("Failed to open bolt store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	},
}

func TestStore_EmptyAndRoundTrip(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			table, err := store.Load()
			if err != nil {
				t.Fatalf("Load on a fresh store failed: %v", err)
			}
			if len(table) != 0 {
				t.Errorf("Expected empty table, got %v", table)
			}

			saved := Table{{"AAA", 100}, {"NEW", 50}, {"BBB", 40}}
			if err := store.Save(saved); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(saved, loaded) {
				t.Errorf("Round trip mismatch: saved %v, loaded %v", saved, loaded)
			}

			// Save overwrites rather than appends
			if err := store.Save(Table{{"ZZZ", 1}}); err != nil {
				t.Fatal(err)
			}
			loaded, _ = store.Load()
			if len(loaded) != 1 || loaded[0].Initials != "ZZZ" {
				t.Errorf("Expected overwritten table, got %v", loaded)
			}
		})
	}
}

func TestRecorder_Record(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			recorder := NewRecorder(factory(t))

			if _, _, err := recorder.Record("AAA", 100); err != nil {
				t.Fatal(err)
			}
			if _, _, err := recorder.Record("BBB", 40); err != nil {
				t.Fatal(err)
			}
			table, rank, err := recorder.Record("newcomer", 50)
			if err != nil {
				t.Fatal(err)
			}

			expected := Table{{"AAA", 100}, {"new", 50}, {"BBB", 40}}
			if !reflect.DeepEqual(table, expected) {
				t.Errorf("Expected %v, got %v", expected, table)
			}
			if rank != 2 {
				t.Errorf("Expected rank 2, got %d", rank)
			}

			loaded, err := recorder.Load()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(loaded, expected) {
				t.Errorf("Persisted table mismatch: %v", loaded)
			}

			if _, _, err := recorder.Record("BAD", -5); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	recorder := NewRecorder(NewFileStore(filepath.Join(t.TempDir(), "highscore.json")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, _, err := recorder.Record("CON", score); err != nil {
				t.Errorf("Record failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	table, err := recorder.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 20 {
		t.Errorf("Expected 20 entries, got %d", len(table))
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Concurrent inserts produced an invalid table: %v", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Expected an error for a corrupt file")
	}
}
