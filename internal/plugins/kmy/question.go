package kmy

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/shared/botutil"
)

//go:embed data/kmy.json
var builtinBank []byte

// Question is one entry of the question bank file.
type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Answer             string   `json:"answer"`
	AnswerSkill        string   `json:"answerSkill"`
	AnswerSkillExplain string   `json:"answerSkillExplain"`
	ItemsTitleArray    []string `json:"itemsTitleArray"`
	ItemsDescArray     []string `json:"itemsDescArray"`
	Type               int      `json:"type"`
	ChapterID          string   `json:"chapterId"`
	Difficulty         int      `json:"difficulty"`
	URL                string   `json:"url"`
	Remark             string   `json:"remark"`
}

// Bank loads questions lazily. A failed load is retried on the next call.
type Bank struct {
	path string

	mu        sync.Mutex
	questions []Question
}

// NewBank reads questions from path, or from the built-in bank when path is
// empty.
func NewBank(path string) *Bank {
	return &Bank{path: path}
}

// Load returns the questions, reading them on first use.
func (b *Bank) Load() ([]Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.questions != nil {
		return b.questions, nil
	}

	data := builtinBank
	if b.path != "" {
		var err error
		if data, err = os.ReadFile(b.path); err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(qs) == 0 {
		return nil, errors.New("question bank is empty")
	}
	b.questions = qs
	return qs, nil
}

// Random picks a question, loading the bank if needed.
func (b *Bank) Random() (Question, error) {
	qs, err := b.Load()
	if err != nil {
		return Question{}, err
	}
	q, _ := botutil.RandomItem(qs)
	return q, nil
}

var reSeparators = regexp.MustCompile(`[,.\s]`)

// CheckAnswer grades a user answer. Comparison is case-insensitive and
// ignores surrounding whitespace. When the correct answer lists several
// options ("A,C"), separators and letter order are ignored.
func CheckAnswer(user, correct string) bool {
	u := strings.ToUpper(strings.TrimSpace(user))
	c := strings.ToUpper(strings.TrimSpace(correct))
	if u == c {
		return true
	}
	if !strings.Contains(c, ",") {
		return false
	}
	return sortedLetters(reSeparators.ReplaceAllString(u, "")) ==
		sortedLetters(reSeparators.ReplaceAllString(c, ""))
}

func sortedLetters(s string) string {
	r := []rune(s)
	slices.Sort(r)
	return string(r)
}

// QuestionMessage renders q with its options and, when present, its image.
func QuestionMessage(q Question) onebot.Segments {
	parts := []any{fmt.Sprintf("【科目一练习】\n%s\n", q.Question)}
	for i, title := range q.ItemsTitleArray {
		desc := ""
		if i < len(q.ItemsDescArray) {
			desc = q.ItemsDescArray[i]
		}
		parts = append(parts, fmt.Sprintf("%s. %s\n", title, desc))
	}
	if u := strings.TrimSpace(q.URL); u != "" {
		parts = append(parts, onebot.ImageSegment(u))
	}
	return onebot.Compose(parts...)
}

// Feedback is the reply sent after grading.
func Feedback(correct bool, q Question) string {
	if correct {
		return fmt.Sprintf("✅ 回答正确！\n\n💡 答题技巧：%s\n\n📖 详细解释：%s", q.AnswerSkill, q.AnswerSkillExplain)
	}
	return fmt.Sprintf("❌ 回答错误！\n\n正确答案：%s\n\n💡 答题技巧：%s\n\n📖 详细解释：%s", q.Answer, q.AnswerSkill, q.AnswerSkillExplain)
}
