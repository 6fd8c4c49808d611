package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ImportStart Phase = iota
	ImportBook
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case ImportStart:
		return "import_start"
	case ImportBook:
		return "import_book"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

func importStartUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d books with %d workers...", total, workers),
	}
}

func importedUpdate(step, total int, res BookImportResult) ProgressUpdate {
	var msg string
	switch res.Outcome {
	case OutcomeAdded:
		msg = fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title)
	case OutcomeSkipped:
		msg = fmt.Sprintf("[%d/%d] - %s (already on shelf)", step, total, res.Title)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error)
	}
	return ProgressUpdate{Phase: ImportBook, Step: step, Total: total, Message: msg, Data: res}
}

func importDoneUpdate(r *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportDone,
		Step:    r.Total,
		Total:   r.Total,
		Message: fmt.Sprintf("Imported %d, skipped %d, failed %d", r.Added, r.Skipped, r.Failed),
		Data:    r,
	}
}
