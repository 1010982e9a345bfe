package dto

import "strings"

// CreateSubjectRequest represents the body of POST /subjects
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,max=200" example:"Algebra"`
	Description string `json:"description" binding:"required" example:"Equations and functions"`
}

// CreateQuestionTypeRequest represents the body of POST /question-types
type CreateQuestionTypeRequest struct {
	Name        string `json:"name" binding:"required,max=200" example:"Multiple choice"`
	Description string `json:"description" binding:"required" example:"Pick one of four options"`
}

// CreateGradeRequest represents the body of POST /grades. The grade name may be sent as "grade" or "name".
type CreateGradeRequest struct {
	Grade    string   `json:"grade" binding:"omitempty,max=100" example:"10"`
	Name     string   `json:"name" binding:"omitempty,max=100"`
	Subjects []string `json:"subjects" binding:"required,min=1" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f11"`
}

// GradeName returns whichever of Grade or Name was supplied
func (r *CreateGradeRequest) GradeName() string {
	if strings.TrimSpace(r.Grade) != "" {
		return r.Grade
	}
	return r.Name
}
