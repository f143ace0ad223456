package models

// CourseCorpus holds the Markdown view of one course's material, one string
// per converted source file, as handed to the coverage analysis step.
type CourseCorpus struct {
	Cheatsheet   string   `json:"cheatsheet"`
	LectureNotes []string `json:"lectureNotes"`
	PastPapers   []string `json:"pastPapers"`
	Assignments  []string `json:"assignments"`
}
