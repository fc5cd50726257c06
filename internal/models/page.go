package models

// AlgorithmPage is one page of a public algorithm listing.
type AlgorithmPage struct {
	Items []AlgorithmSummary `json:"items"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
}
