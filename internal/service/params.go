package service

import "encoding/json"

// ListParams is the public listing query. Zero Page/Size/SortBy/Order take defaults.
type ListParams struct {
	Page         int
	Size         int
	CategoryID   *int
	DifficultyID *int
	Search       string
	SortBy       string // "title" | "view_count" | "created_at"
	Order        string // "asc" | "desc"
}

type CreateUserParams struct {
	Email    string
	Password string
	Role     string // "admin" | "editor"; empty means editor
}

// AlgorithmParams carries every field of a new algorithm. New algorithms start unpublished.
type AlgorithmParams struct {
	Title                 string
	CategoryID            int
	DifficultyID          int
	ConceptSummary        string
	CoreFormulas          json.RawMessage
	ThoughtProcess        *string
	ApplicationConditions json.RawMessage
	TimeComplexity        string
	SpaceComplexity       string
	ProblemTypes          json.RawMessage
	CommonMistakes        *string
}

// AlgorithmPatch is a partial update; nil fields are left alone.
type AlgorithmPatch struct {
	Title                 *string
	CategoryID            *int
	DifficultyID          *int
	ConceptSummary        *string
	CoreFormulas          json.RawMessage
	ThoughtProcess        *string
	ApplicationConditions json.RawMessage
	TimeComplexity        *string
	SpaceComplexity       *string
	ProblemTypes          json.RawMessage
	CommonMistakes        *string
	IsPublished           *bool
}

type TemplateParams struct {
	LanguageID  int
	Code        string
	Explanation *string
}

type CategoryParams struct {
	Name         string
	Slug         string // derived from Name when empty
	Description  *string
	DisplayOrder int
	ParentID     *int
	Color        string // #RRGGBB; default when empty
}
