package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

// LoadQuestionBank reads questions from a JSON file. Every question must be
// valid; a broken bank is rejected as a whole.
func LoadQuestionBank(path string) ([]entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var wrapper struct {
		Questions []entities.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question bank JSON: %w", err)
	}

	for i := range wrapper.Questions {
		q := &wrapper.Questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("question #%d: %w: missing id", i, entities.ErrInvalidQuestion)
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
	}

	return wrapper.Questions, nil
}
