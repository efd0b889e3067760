package response_models

type QuestionOption struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

type Question struct {
	ID            int              `json:"id" yaml:"id"`
	Area          string           `json:"area,omitempty" yaml:"area"`
	Question      string           `json:"question" yaml:"question"`
	Options       []QuestionOption `json:"options" yaml:"options"`
	CorrectAnswer string           `json:"correctAnswer,omitempty" yaml:"correctAnswer"`
	Explanation   string           `json:"explanation,omitempty" yaml:"explanation"`
}

type QuestionSet struct {
	Questions []Question `json:"questions"`
}

type AreaScore struct {
	Score       float64 `json:"score"`
	Recommended float64 `json:"recommended"`
	Feedback    string  `json:"feedback"`
}

type ReviewEntry struct {
	QuestionID  int    `json:"question_id"`
	Correct     bool   `json:"correct"`
	UserAnswer  string `json:"user_answer"`
	Explanation string `json:"explanation"`
}

// Evaluation is the agent's grading of a submitted answer sheet.
type Evaluation struct {
	Score  *float64             `json:"score"`
	Areas  map[string]AreaScore `json:"areas"`
	Review []ReviewEntry        `json:"review"`
}
