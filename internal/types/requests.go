package types

import "github.com/go-playground/validator/v10"

// AnalysisRequest represents a request to evaluate a document.
// Exactly one of DocumentPath, DocumentURL, or DocumentText must be set.
type AnalysisRequest struct {
	DocumentPath string `json:"document_path,omitempty"`
	DocumentURL  string `json:"document_url,omitempty" validate:"omitempty,url"`
	DocumentText string `json:"document_text,omitempty"`
	DocumentName string `json:"document_name,omitempty"`
	Sector       string `json:"sector" validate:"required,min=1"`
	NumIdeas     int    `json:"num_ideas,omitempty" validate:"omitempty,min=1,max=10"`
	IdeaIndex    int    `json:"idea_index,omitempty" validate:"omitempty,min=0"`
	Checkpoints  *bool  `json:"checkpoints,omitempty"`
}

// Validate validates the AnalysisRequest using the validator.
func (r *AnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// HasSource reports whether any document source is provided.
func (r *AnalysisRequest) HasSource() bool {
	return r.DocumentPath != "" || r.DocumentURL != "" || r.DocumentText != ""
}
