package types

// JournalEntry is one row of the journal collection. The mood label is
// free text; its numeric score is derived on read via MoodScore.
type JournalEntry struct {
	Handle    Handle
	Timestamp string
	Body      string
	MoodLabel string
	Advice    string
}

// JournalEntryFromRow hydrates a loaded row into a JournalEntry.
func JournalEntryFromRow(r Row) JournalEntry {
	return JournalEntry{
		Handle:    r.Handle,
		Timestamp: r.Cell("timestamp"),
		Body:      r.Cell("body"),
		MoodLabel: r.Cell("mood_label"),
		Advice:    r.Cell("advice"),
	}
}

// Collection returns the journal collection name.
func (j JournalEntry) Collection() string { return JournalCollection }

// Values returns the entry's cells in append order.
func (j JournalEntry) Values() []string {
	return []string{j.Timestamp, j.Body, j.MoodLabel, j.Advice}
}

// Score returns the numeric mood score for the entry's label.
func (j JournalEntry) Score() int { return MoodScore(j.MoodLabel) }
