package dto

// CreateChapterRequest represents the body of POST /chapters.
// Grade and Subject accept either an id or the entity's unique name.
type CreateChapterRequest struct {
	Grade       string  `json:"grade" binding:"required" example:"10"`
	Subject     string  `json:"subject" binding:"required" example:"Algebra"`
	ChapterName string  `json:"chapterName" binding:"required,max=200" example:"Functions"`
	BookName    *string `json:"bookName" binding:"omitempty,max=200" example:"Algebra I"`
}

// UpdateChapterRequest is a sparse patch; absent fields are left untouched and
// an empty bookName clears it
type UpdateChapterRequest struct {
	Grade       *string `json:"grade"`
	Subject     *string `json:"subject"`
	ChapterName *string `json:"chapterName" binding:"omitempty,max=200"`
	BookName    *string `json:"bookName" binding:"omitempty,max=200"`
}
