package models

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#0969da"

// Category groups algorithms; categories may nest through ParentID.
type Category struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
	ParentID     *int    `json:"parent_id"`
	Color        string  `json:"color"` // hex, e.g. #0969da
}

// DifficultyLevel is one of Easy | Medium | Hard.
type DifficultyLevel struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ProgrammingLanguage struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Extension string `json:"extension"` // ".py", ".cpp"
	PrismKey  string `json:"prism_key"` // Prism.js highlighter key
}
