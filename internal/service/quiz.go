package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/knowledge"
)

const (
	defaultQuestionCount = 5
	quizMaxTokens        = 1200
	quizTemperature      = 0.7
)

const quizSystemPrompt = `You write practice questions for medical students. Respond with a JSON array only, no prose. Each element: {"question": string, "options": [4 strings], "correctAnswer": int (0-based), "explanation": string}.`

const quizApology = "I'm sorry — I couldn't put together a practice test right now. Please try again in a few minutes. [error: quiz_generation]"

var weekPattern = regexp.MustCompile(`(?i)\bweek\s*#?\s*(\d{1,2})\b`)

// QuizService synthesizes practice tests for a curriculum phase and week,
// using the AI capability when available and deterministic templates when the
// call fails. Every path returns user-facing text, never an error.
type QuizService struct {
	curriculum    *knowledge.Curriculum
	generator     TextGenerator
	questionCount int
}

// NewQuizService creates a QuizService. generator may be nil; templates are
// used exclusively in that case.
func NewQuizService(curriculum *knowledge.Curriculum, generator TextGenerator) *QuizService {
	return &QuizService{
		curriculum:    curriculum,
		generator:     generator,
		questionCount: defaultQuestionCount,
	}
}

// Respond handles a quiz-intent message end to end: parameter extraction,
// menu prompts for missing parameters, question synthesis, and rendering.
func (s *QuizService) Respond(ctx context.Context, message string) string {
	phase, ok := extractPhase(message)
	if !ok {
		return s.phaseMenu()
	}

	week, ok := extractWeek(message)
	if !ok {
		return s.weekMenu(phase)
	}

	entry, err := s.curriculum.Week(phase, week)
	if err != nil {
		return s.weekMenu(phase)
	}

	questions := s.generateQuestions(ctx, entry)
	if len(questions) == 0 {
		return quizApology
	}

	return renderQuiz(entry, questions)
}

func extractPhase(message string) (domain.Phase, bool) {
	for _, token := range strings.Fields(message) {
		if phase, ok := domain.ParsePhase(strings.Trim(token, ".,!?")); ok {
			return phase, true
		}
	}
	return "", false
}

func extractWeek(message string) (int, bool) {
	m := weekPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return week, true
}

func (s *QuizService) phaseMenu() string {
	var b strings.Builder
	b.WriteString("Happy to put together a practice test. Which phase are you in?\n")
	for _, phase := range domain.QuizPhases {
		fmt.Fprintf(&b, "\n- **%s**", phase)
	}
	b.WriteString("\n\nFor example: \"create a test for M1 week 3\".\n")
	return b.String()
}

func (s *QuizService) weekMenu(phase domain.Phase) string {
	weeks := s.curriculum.WeeksFor(phase)
	if len(weeks) == 0 {
		return s.phaseMenu()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Which week of %s? Available weeks:\n", phase)
	for _, w := range weeks {
		fmt.Fprintf(&b, "\n- Week %d: %s", w.Week, w.Topic)
	}
	fmt.Fprintf(&b, "\n\nFor example: \"create a test for %s week %d\".\n", phase, weeks[0].Week)
	return b.String()
}

func (s *QuizService) generateQuestions(ctx context.Context, entry *domain.CurriculumWeek) []domain.QuizQuestion {
	if s.generator != nil {
		prompt := fmt.Sprintf(
			"Write %d multiple-choice questions for %s week %d (%s). Themes: %s.",
			s.questionCount, entry.Phase, entry.Week, entry.Topic, strings.Join(entry.Themes, ", "),
		)
		raw, err := s.generator.GenerateText(ctx, quizSystemPrompt, nil, prompt, quizMaxTokens, quizTemperature)
		if err == nil {
			if questions := parseQuestionJSON(raw, s.questionCount); len(questions) > 0 {
				return questions
			}
			log.Printf("quiz: generated output unparseable, falling back to templates")
		} else {
			log.Printf("quiz: generation failed, falling back to templates: %v", err)
		}
	}

	return templateQuestions(entry, s.questionCount)
}

// parseQuestionJSON extracts a validated question list from model output.
// Returns nil when the output cannot be used, which triggers the template
// fallback.
func parseQuestionJSON(raw string, limit int) []domain.QuizQuestion {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed []domain.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil
	}

	var questions []domain.QuizQuestion
	for i := range parsed {
		if err := domain.ValidateQuizQuestion(&parsed[i]); err != nil {
			continue
		}
		questions = append(questions, parsed[i])
		if len(questions) == limit {
			break
		}
	}
	return questions
}

func templateQuestions(entry *domain.CurriculumWeek, limit int) []domain.QuizQuestion {
	topic := strings.ToLower(entry.Topic)

	var questions []domain.QuizQuestion
	switch {
	case strings.Contains(topic, "cardio") || strings.Contains(topic, "heart"):
		questions = cardiologyTemplates()
	case strings.Contains(topic, "renal") || strings.Contains(topic, "kidney"):
		questions = renalTemplates()
	case strings.Contains(topic, "neuro"):
		questions = neurologyTemplates()
	default:
		questions = genericTemplates(entry)
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}
	return questions
}

func cardiologyTemplates() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			Question:      "A patient presents with a harsh systolic murmur loudest at the right upper sternal border radiating to the carotids. Which valve lesion is most likely?",
			Options:       []string{"Mitral regurgitation", "Aortic stenosis", "Tricuspid regurgitation", "Pulmonic stenosis"},
			CorrectAnswer: 1,
			Explanation:   "Aortic stenosis classically produces a crescendo-decrescendo systolic murmur at the right upper sternal border with carotid radiation.",
		},
		{
			Question:      "Which phase of the cardiac cycle consumes the most myocardial oxygen?",
			Options:       []string{"Isovolumetric relaxation", "Rapid filling", "Isovolumetric contraction", "Atrial systole"},
			CorrectAnswer: 2,
			Explanation:   "Isovolumetric contraction generates pressure against closed valves, the most oxygen-expensive phase.",
		},
		{
			Question:      "A patient on a loop diuretic for heart failure develops muscle cramps. Which electrolyte abnormality is most likely responsible?",
			Options:       []string{"Hyperkalemia", "Hypokalemia", "Hypercalcemia", "Hypernatremia"},
			CorrectAnswer: 1,
			Explanation:   "Loop diuretics block Na-K-2Cl reabsorption and waste potassium, commonly causing hypokalemia.",
		},
	}
}

func renalTemplates() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			Question:      "Which segment of the nephron reabsorbs the majority of filtered sodium?",
			Options:       []string{"Proximal tubule", "Thin descending limb", "Distal convoluted tubule", "Collecting duct"},
			CorrectAnswer: 0,
			Explanation:   "The proximal tubule reabsorbs roughly two-thirds of filtered sodium and water.",
		},
		{
			Question:      "A patient with vomiting for three days most likely has which acid-base disturbance?",
			Options:       []string{"Metabolic acidosis", "Respiratory acidosis", "Metabolic alkalosis", "Respiratory alkalosis"},
			CorrectAnswer: 2,
			Explanation:   "Loss of gastric hydrochloric acid produces a hypochloremic metabolic alkalosis.",
		},
		{
			Question:      "Which finding distinguishes prerenal azotemia from acute tubular necrosis?",
			Options:       []string{"Elevated creatinine", "BUN:creatinine ratio above 20:1", "Oliguria", "Hyperkalemia"},
			CorrectAnswer: 1,
			Explanation:   "Avid sodium and urea reabsorption in prerenal states raises the BUN:creatinine ratio above 20:1.",
		},
	}
}

func neurologyTemplates() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			Question:      "Sudden right arm and face weakness with expressive aphasia localizes to which vascular territory?",
			Options:       []string{"Left anterior cerebral artery", "Left middle cerebral artery", "Right middle cerebral artery", "Basilar artery"},
			CorrectAnswer: 1,
			Explanation:   "Face and arm weakness with Broca aphasia is the classic left MCA superior division syndrome.",
		},
		{
			Question:      "Which neurotransmitter is deficient in the substantia nigra in Parkinson disease?",
			Options:       []string{"Serotonin", "Acetylcholine", "Dopamine", "GABA"},
			CorrectAnswer: 2,
			Explanation:   "Degeneration of dopaminergic neurons in the substantia nigra pars compacta causes Parkinson disease.",
		},
		{
			Question:      "A lesion of which spinal tract produces contralateral loss of pain and temperature sensation?",
			Options:       []string{"Dorsal columns", "Spinothalamic tract", "Corticospinal tract", "Spinocerebellar tract"},
			CorrectAnswer: 1,
			Explanation:   "Spinothalamic fibers decussate within one or two levels of entry, so lesions cause contralateral deficits.",
		},
	}
}

// genericTemplates covers weeks with no topic-specific template set.
func genericTemplates(entry *domain.CurriculumWeek) []domain.QuizQuestion {
	theme := entry.Topic
	if len(entry.Themes) > 0 {
		theme = entry.Themes[0]
	}

	return []domain.QuizQuestion{
		{
			Question:      fmt.Sprintf("Which study approach is most effective when preparing for the %s material?", entry.Topic),
			Options:       []string{"Re-reading lecture slides repeatedly", "Spaced retrieval practice with questions", "Highlighting the textbook", "Cramming the night before"},
			CorrectAnswer: 1,
			Explanation:   "Spaced retrieval practice consistently outperforms passive review in retention studies.",
		},
		{
			Question:      fmt.Sprintf("During the %s week, which resource should you check first for required sessions?", entry.Phase),
			Options:       []string{"The academic calendar", "Social media", "Last year's notes", "A classmate's guess"},
			CorrectAnswer: 0,
			Explanation:   "Required encounters are published on the academic calendar by the curriculum office.",
		},
		{
			Question:      fmt.Sprintf("A classmate is struggling with %s. What is the best first step you can recommend?", theme),
			Options:       []string{"Ignore it until exams", "Self-refer to Academic Achievement support", "Switch study resources daily", "Skip the related sessions"},
			CorrectAnswer: 1,
			Explanation:   "Academic Achievement accepts self-referrals and builds individualized study plans.",
		},
	}
}

func renderQuiz(entry *domain.CurriculumWeek, questions []domain.QuizQuestion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Practice Test: %s Week %d — %s\n", entry.Phase, entry.Week, entry.Topic)

	for i, q := range questions {
		fmt.Fprintf(&b, "\n**Question %d.** %s\n\n", i+1, q.Question)
		for j, option := range q.Options {
			fmt.Fprintf(&b, "%c) %s\n", 'A'+j, option)
		}
		fmt.Fprintf(&b, "\n**Answer: %c** — %s\n", 'A'+q.CorrectAnswer, q.Explanation)
		if len(q.Rationales) == len(q.Options) {
			for j, rationale := range q.Rationales {
				fmt.Fprintf(&b, "  - %c: %s\n", 'A'+j, rationale)
			}
		}
	}

	b.WriteString("\nReview each explanation before moving on — the reasoning matters more than the letter.\n")
	return b.String()
}
