package types

// Standard collection names. Each maps to one tab in the backing
// spreadsheet (or one table in the sqlite backend).
const (
	TasksCollection   = "tasks"
	FinanceCollection = "finance"
	HabitsCollection  = "habits"
	JournalCollection = "journal"
	AdvisorCollection = "advisor"
)

// CollectionNames lists all standard collection names for enumeration.
var CollectionNames = []string{
	TasksCollection,
	FinanceCollection,
	HabitsCollection,
	JournalCollection,
	AdvisorCollection,
}

// collectionColumns holds the positional column schema per collection.
// Column order matters: Append writes values positionally, and the
// backing store's header row uses exactly these names.
var collectionColumns = map[string][]string{
	TasksCollection:   {"timestamp", "title", "priority", "status"},
	FinanceCollection: {"timestamp", "item", "category", "amount", "kind"},
	HabitsCollection:  {"date", "habit_name", "status"},
	JournalCollection: {"timestamp", "body", "mood_label", "advice"},
	AdvisorCollection: {"timestamp", "question", "answer"},
}

// Columns returns the ordered column names for a collection.
// Returns ErrUnknownCollection if the name is not recognized.
func Columns(collection string) ([]string, error) {
	cols, ok := collectionColumns[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return cols, nil
}

// KnownCollection reports whether the name is a standard collection.
func KnownCollection(collection string) bool {
	_, ok := collectionColumns[collection]
	return ok
}

// ColumnIndex returns the zero-based position of a column within a
// collection's schema. Returns ErrUnknownColumn if the column does not
// exist, ErrUnknownCollection if the collection does not.
func ColumnIndex(collection, column string) (int, error) {
	cols, err := Columns(collection)
	if err != nil {
		return 0, err
	}
	for i, c := range cols {
		if c == column {
			return i, nil
		}
	}
	return 0, ErrUnknownColumn
}
