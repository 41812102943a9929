package extract

import "fmt"

// Mode-specific instructions. Each embeds the current date and the user's
// raw text and demands a JSON-only reply with the mode's field set.
const (
	taskPrompt = `Analyze this task: %q. Today is %s. ` +
		`Reply with JSON only, no prose: ` +
		`{"title": "short task title", "priority": "High|Medium|Low"}`

	transactionPrompt = `Analyze this money note: %q. Today is %s. ` +
		`Reply with JSON only, no prose: ` +
		`{"item": "what was bought or earned", "category": "one-word category", ` +
		`"amount": numeric amount, "type": "expense" or "income"}`

	habitPrompt = `Analyze this habit check-in: %q. Today is %s. ` +
		`Reply with JSON only, no prose: ` +
		`{"habit_name": "short habit name", "status": "Done"}`

	journalPrompt = `Analyze this journal entry: %q. Today is %s. ` +
		`Reply with JSON only, no prose: ` +
		`{"mood_label": "one-word mood", "advice": "one short sentence of advice"}`
)

// buildPrompt formats the instruction for a mode.
func buildPrompt(text string, mode Mode, today string) (string, error) {
	switch mode {
	case ModeTask:
		return fmt.Sprintf(taskPrompt, text, today), nil
	case ModeTransaction:
		return fmt.Sprintf(transactionPrompt, text, today), nil
	case ModeHabit:
		return fmt.Sprintf(habitPrompt, text, today), nil
	case ModeJournal:
		return fmt.Sprintf(journalPrompt, text, today), nil
	}
	return "", ErrUnknownMode
}
