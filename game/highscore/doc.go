// Package highscore ranks and persists Captain Veggie results.
//
// A Table is kept in descending score order. Insert places a new entry in
// front of the first entry with a strictly lower score, so a tie lands after
// the entries already holding that score.
//
// Storage:
//
// Two Store implementations are provided: FileStore writes a JSON array of
// {"initials", "score"} objects to a single file, and BoltStore keeps the
// same JSON under the "table" key of the "highscores" bucket in a bbolt
// database. In both, the absence of saved data loads as an empty table.
//
// Usage:
//
//	recorder := highscore.NewRecorder(highscore.NewFileStore("highscore.json"))
//	table, rank, err := recorder.Record("ABC", 120)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, line := range table.Lines() {
//		fmt.Println(line)
//	}
package highscore
