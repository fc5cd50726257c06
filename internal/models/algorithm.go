package models

import (
	"encoding/json"
	"time"
)

// Algorithm is the full learning record served by the detail endpoint.
type Algorithm struct {
	ID                    int             `json:"id"`
	Title                 string          `json:"title"`
	Slug                  string          `json:"slug"`
	CategoryID            int             `json:"category_id"`
	DifficultyID          int             `json:"difficulty_id"`
	ConceptSummary        string          `json:"concept_summary"`
	CoreFormulas          json.RawMessage `json:"core_formulas"`          // [{name, formula, description}]
	ThoughtProcess        *string         `json:"thought_process"`        // free text
	ApplicationConditions json.RawMessage `json:"application_conditions"` // {when_to_use, when_not_to_use}
	TimeComplexity        string          `json:"time_complexity"`
	SpaceComplexity       string          `json:"space_complexity"`
	ProblemTypes          json.RawMessage `json:"problem_types"` // [{type, leetcode_examples}]
	CommonMistakes        *string         `json:"common_mistakes"`
	IsPublished           bool            `json:"is_published"`
	ViewCount             int             `json:"view_count"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Category      Category        `json:"category"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	CodeTemplates []CodeTemplate  `json:"code_templates"`
}

// AlgorithmSummary is the reduced shape returned by listings.
type AlgorithmSummary struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	ConceptSummary  string          `json:"concept_summary"`
	TimeComplexity  string          `json:"time_complexity"`
	SpaceComplexity string          `json:"space_complexity"`
	ViewCount       int             `json:"view_count"`
	CreatedAt       time.Time       `json:"created_at"`
	Category        Category        `json:"category"`
	Difficulty      DifficultyLevel `json:"difficulty"`
}

type CodeTemplate struct {
	ID          int                 `json:"id"`
	AlgorithmID int                 `json:"algorithm_id"`
	LanguageID  int                 `json:"-"`
	Code        string              `json:"code"`
	Explanation *string             `json:"explanation"`
	Language    ProgrammingLanguage `json:"language"`
}
