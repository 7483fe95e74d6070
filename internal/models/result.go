package models

type UploadResponse struct {
	ID           string `json:"id"`
	ContentHash  string `json:"content_hash"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	Duplicate    bool   `json:"duplicate"`
}

type EvaluateRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *EvaluationData `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type EvaluationData struct {
	Verdict            string           `json:"verdict"`
	FinalScore         float64          `json:"final_score"`
	TotalWeightedScore float64          `json:"total_weighted_score"`
	TotalWeight        float64          `json:"total_weight"`
	PassingThreshold   float64          `json:"passing_threshold"`
	Parameters         []ParameterScore `json:"parameters"`
}

// ParameterRequest creates or replaces a parameter. Type may be omitted, in
// which case the parameter name is classified first.
type ParameterRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Weight      float64  `json:"weight"`
	MaxValue    *float64 `json:"max_value,omitempty"`
	BenefitType string   `json:"benefit_type,omitempty"`
	Description string   `json:"description,omitempty"`
}

type ParameterResponse struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Weight      float64  `json:"weight"`
	MaxValue    *float64 `json:"max_value,omitempty"`
	BenefitType string   `json:"benefit_type,omitempty"`
	Description string   `json:"description"`
}

type ClassifyRequest struct {
	Name string `json:"name"`
}

type ClassifyResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
