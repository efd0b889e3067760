package services

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"learnpath/internal/models/db_models"
	"learnpath/internal/models/request_models"
)

const questionsPrompt = `Perform a comprehensive memory block search:
1. Carefully archive and preserve existing assessment questions
2. Verify core_instructions for question generation guidelines
3. Ensure NO EXISTING QUESTIONS ARE DELETED during retrieval
4. Maintain historical question context
5. Use archival retrieval methodology

Now combine all the questions from your assessment_questions_1, assessment_questions_2, assessment_questions_3 and assessment_questions_4 memory blocks and return ONLY a JSON object with this structure:
{
  "questions": [
    {
      "id": 1,
      "area": "Binary Search",
      "question": "Question text",
      "options": [
        {"id": "A", "text": "Option A"},
        {"id": "B", "text": "Option B"},
        {"id": "C", "text": "Option C"},
        {"id": "D", "text": "Option D"}
      ],
      "correctAnswer": "A"
    }
  ]
}

Do not include any additional text or markdown code blocks.`

const evaluationPrompt = `Comprehensive Memory Block Evaluation Protocol:

Memory Search Guidelines:
1. Conduct thorough archival search across memory blocks
2. Review scoring_logic for persistent knowledge area weights
3. Examine user_history for previous interaction context
4. Verify core_instructions for evaluation methodology

Archival Retrieval Instructions:
- Preserve ALL historical evaluation data
- Append new evaluation results to existing records
- Maintain comprehensive user interaction history

Now evaluate the user's answers based on the following data:

%s

For each knowledge area, calculate the percentage of correct answers.
Create a detailed evaluation with the following structure:
1. Overall score (percentage of all correct answers)
2. Area-by-area breakdown with scores and personalized feedback
3. Compare the user's scores with the recommended levels

Return the evaluation as a JSON object with this structure:
{
  "score": 75,
  "areas": {
    "Binary Search": {
      "score": 80,
      "recommended": 80,
      "feedback": "You have a good understanding of binary search concepts."
    }
  },
  "review": [
    {
      "question_id": 1,
      "correct": true,
      "user_answer": "A",
      "explanation": "Detailed explanation here..."
    }
  ]
}

Only respond with the JSON object, no additional text.`

const roadmapPrompt = `Memory Block Archival Search:
1. Conduct extensive review of roadmap_templates
2. Archive and preserve existing roadmap structures
3. Examine scoring_logic for persistent knowledge weightings
4. Review user_history for comprehensive interaction context
5. Verify core_instructions for roadmap generation methodology

Please generate a personalized 6-week learning roadmap based on the following evaluation:

%s

Use the roadmap_templates in your memory to select an appropriate template based on the user's overall score:
- Below 50%%: beginner template
- 50-75%%: intermediate template
- Above 75%%: advanced template

The suggested template for this user is "%s".
Then customize the template based on the user's strengths and weaknesses in different knowledge areas.

Return the roadmap as a JSON object with this structure:
{
  "title": "Here's a Straightforward Roadmap to Success",
  "level": "Intermediate",
  "overall_score": 75,
  "weeks": [
    {
      "week": 1,
      "focus": "Advanced Data Structures",
      "hours": 12,
      "modules": 4,
      "lessons": 8,
      "topics": ["Priority Queues", "Advanced Hash Tables", "Segment Trees"],
      "resources": [
        {"type": "Tutorial", "title": "Introduction to Advanced Data Structures", "url": "https://example.com/tutorial"}
      ]
    }
  ]
}

Ensure that:
1. Each week addresses specific knowledge areas that need improvement
2. The roadmap is progressive and builds skills week by week
3. Resources are specific and relevant to the topics
4. The hours, modules, and lessons are realistic based on the template

Only respond with the JSON object, no additional text.`

const chatPrompt = `
[CONVERSATION CONTEXT]
%s

[USER QUESTION]
%s

Please respond conversationally as the Learning Path Generator assistant. Format any code with markdown code blocks using triple backticks. Keep responses concise, educational and encouraging. If the user asks about technical concepts, provide accurate but accessible explanations.
`

const historyAppendPrompt = `%s
Please append your user_history memory block with the following information:

%s

Please respond with "Memory appended" once you've noted these changes.`

type userProfile struct {
	Experience *string `json:"experience"`
	Education  *string `json:"education"`
	Goal       *string `json:"goal"`
}

func profileOf(s *db_models.UserSession) userProfile {
	opt := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	return userProfile{Experience: opt(s.Experience), Education: opt(s.Education), Goal: opt(s.Goal)}
}

func indentJSON(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}
	return string(raw), nil
}

// chatContextBlock renders what the assistant should know about the user.
func chatContextBlock(c *request_models.ChatContext) string {
	if c == nil {
		return ""
	}

	var b strings.Builder
	if c.Experience != "" {
		fmt.Fprintf(&b, "User experience level: %s\n", c.Experience)
	}
	if c.Education != "" {
		fmt.Fprintf(&b, "Computer science background: %s\n", c.Education)
	}
	if c.Goal != "" {
		fmt.Fprintf(&b, "User's goal: %s\n", c.Goal)
	}

	if r := c.EvaluationResults; r != nil {
		b.WriteString("\nEvaluation results:\n")
		fmt.Fprintf(&b, "Overall score: %s%%\n", formatNumber(r.Score))
		b.WriteString("Knowledge area scores:\n")
		for _, area := range slices.Sorted(maps.Keys(r.Areas)) {
			a := r.Areas[area]
			fmt.Fprintf(&b, "- %s: %s%% (recommended: %s%%)\n", area, formatNumber(a.Score), formatNumber(a.Recommended))
		}
	}

	if r := c.RoadmapData; r != nil {
		fmt.Fprintf(&b, "\nCurrent learning path: %s\n", r.Title)
		fmt.Fprintf(&b, "Level: %s\n", r.Level)
	}
	return b.String()
}

// sessionChatContext is used when the browser sends no context of its own.
func sessionChatContext(s *db_models.UserSession) *request_models.ChatContext {
	c := &request_models.ChatContext{
		Experience: s.Experience,
		Education:  s.Education,
		Goal:       s.Goal,
	}
	if s.Score != nil {
		score := *s.Score
		areas := make(map[string]request_models.AreaContext, len(s.Areas))
		for name, a := range s.Areas {
			areaScore, recommended := a.Score, a.Recommended
			areas[name] = request_models.AreaContext{Score: &areaScore, Recommended: &recommended}
		}
		c.EvaluationResults = &request_models.EvaluationContext{Score: &score, Areas: areas}
	}
	if s.Roadmap != nil {
		c.RoadmapData = &request_models.RoadmapContext{Title: s.Roadmap.Title, Level: s.Roadmap.Level}
	}
	return c
}

func formatNumber(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}
