package domain

import "time"

// History records one speech practice session for a user: the uploaded audio,
// the transcription and the corrected text with its grammar analysis.
type History struct {
	ID                 int64
	UserID             int64
	AudioKey           string
	OriginalParagraph  string
	CorrectedParagraph string
	GrammarAnalysis    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
