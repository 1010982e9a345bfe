package dto

// CreateQuestionRequest represents the body of POST /questions
type CreateQuestionRequest struct {
	Question     string  `json:"question" binding:"required" example:"Solve x + 2 = 5"`
	Answer       *string `json:"answer" example:"x = 3"`
	Grade        string  `json:"grade" binding:"required" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f11"`
	Subject      string  `json:"subject" binding:"required" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f12"`
	Chapter      string  `json:"chapter" binding:"required" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f13"`
	QuestionType string  `json:"questionType" binding:"required" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f14"`
	Description  string  `json:"description" binding:"required" example:"Linear equations warm-up"`
}

// UpdateQuestionRequest is a sparse patch; an empty answer clears it
type UpdateQuestionRequest struct {
	Question     *string `json:"question"`
	Answer       *string `json:"answer"`
	Grade        *string `json:"grade"`
	Subject      *string `json:"subject"`
	Chapter      *string `json:"chapter"`
	QuestionType *string `json:"questionType"`
	Description  *string `json:"description"`
}
