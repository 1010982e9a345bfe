package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

type fixture struct {
	repos   *repositories.Repositories
	user    *models.User
	subject *models.Subject
	grade   *models.Grade
	chapter *models.Chapter
	qtype   *models.QuestionType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{repos: NewRepositories()}

	f.user = &models.User{Email: "teacher@example.com", Password: "hash", Role: models.RoleTeacher}
	if err := f.repos.Users.Create(ctx, f.user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	f.subject = &models.Subject{Name: "Math"}
	if err := f.repos.Subjects.Create(ctx, f.subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	f.grade = &models.Grade{Name: "10", SubjectIDs: []uuid.UUID{f.subject.ID}}
	if err := f.repos.Grades.Create(ctx, f.grade); err != nil {
		t.Fatalf("create grade: %v", err)
	}
	f.chapter = &models.Chapter{GradeID: f.grade.ID, SubjectID: f.subject.ID, ChapterName: "Functions", CreatedBy: f.user.ID}
	if err := f.repos.Chapters.Create(ctx, f.chapter); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	f.qtype = &models.QuestionType{Name: "MCQ"}
	if err := f.repos.QuestionTypes.Create(ctx, f.qtype); err != nil {
		t.Fatalf("create question type: %v", err)
	}
	return f
}

func (f *fixture) question(text string) *models.Question {
	return &models.Question{
		Question:       text,
		GradeID:        f.grade.ID,
		SubjectID:      f.subject.ID,
		ChapterID:      f.chapter.ID,
		QuestionTypeID: f.qtype.ID,
		Description:    "d",
		CreatedBy:      f.user.ID,
	}
}

func TestUserEmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.Users.Create(ctx, &models.User{Email: "TEACHER@example.com", Password: "x"})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	exists, err := f.repos.Users.EmailExists(ctx, "Teacher@Example.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist, got %v %v", exists, err)
	}

	token := "tok"
	if err := f.repos.Users.UpdateAccessToken(ctx, f.user.ID, &token); err != nil {
		t.Fatalf("update token: %v", err)
	}
	u, _ := f.repos.Users.GetByID(ctx, f.user.ID)
	if u.AccessToken == nil || *u.AccessToken != "tok" {
		t.Fatalf("token not stored: %+v", u.AccessToken)
	}
}

func TestGradeRequiresExistingSubjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.Grades.Create(ctx, &models.Grade{Name: "11", SubjectIDs: []uuid.UUID{uuid.New()}})
	if !errors.Is(err, repositories.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	err = f.repos.Grades.Create(ctx, &models.Grade{Name: "10", SubjectIDs: []uuid.UUID{f.subject.ID}})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	g, err := f.repos.Grades.GetByName(ctx, "10")
	if err != nil {
		t.Fatalf("get grade: %v", err)
	}
	if len(g.Subjects) != 1 || g.Subjects[0].Name != "Math" {
		t.Fatalf("expected Math subject, got %+v", g.Subjects)
	}
}

func TestChapterKeyIsScopedToCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dup := &models.Chapter{GradeID: f.grade.ID, SubjectID: f.subject.ID, ChapterName: "Functions", CreatedBy: f.user.ID}
	if err := f.repos.Chapters.Create(ctx, dup); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	other := &models.User{Email: "other@example.com", Password: "hash", Role: models.RoleTeacher}
	if err := f.repos.Users.Create(ctx, other); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup.CreatedBy = other.ID
	if err := f.repos.Chapters.Create(ctx, dup); err != nil {
		t.Fatalf("another creator may reuse the key: %v", err)
	}

	exists, _ := f.repos.Chapters.Exists(ctx, f.grade.ID, f.subject.ID, "Functions", f.user.ID, &f.chapter.ID)
	if exists {
		t.Fatal("excluded chapter must not count as a collision")
	}
}

func TestChapterListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second := &models.Chapter{GradeID: f.grade.ID, SubjectID: f.subject.ID, ChapterName: "Limits", CreatedBy: f.user.ID}
	if err := f.repos.Chapters.Create(ctx, second); err != nil {
		t.Fatalf("create chapter: %v", err)
	}

	list, err := f.repos.Chapters.List(ctx, models.ChapterFilter{CreatedBy: &f.user.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest chapter first, got %+v", list)
	}

	stranger := uuid.New()
	list, _ = f.repos.Chapters.List(ctx, models.ChapterFilter{CreatedBy: &stranger})
	if len(list) != 0 {
		t.Fatalf("expected no chapters, got %d", len(list))
	}
}

func TestDeleteRestrictedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q := f.question("What is 2+2?")
	if err := f.repos.Questions.Create(ctx, q); err != nil {
		t.Fatalf("create question: %v", err)
	}

	tests := []struct {
		name string
		del  func() error
	}{
		{"subject", func() error { return f.repos.Subjects.Delete(ctx, f.subject.ID) }},
		{"grade", func() error { return f.repos.Grades.Delete(ctx, f.grade.ID) }},
		{"chapter", func() error { return f.repos.Chapters.Delete(ctx, f.chapter.ID) }},
		{"question type", func() error { return f.repos.QuestionTypes.Delete(ctx, f.qtype.ID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.del(); !errors.Is(err, repositories.ErrReferenced) {
				t.Fatalf("expected ErrReferenced, got %v", err)
			}
		})
	}

	if err := f.repos.Questions.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if err := f.repos.Chapters.Delete(ctx, f.chapter.ID); err != nil {
		t.Fatalf("delete chapter after question: %v", err)
	}
	if err := f.repos.Chapters.Delete(ctx, f.chapter.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionTextUniqueAndPaged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	f.repos.Questions.(*QuestionRepository).s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, text := range []string{"q1", "q2", "q3"} {
		if err := f.repos.Questions.Create(ctx, f.question(text)); err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
	}
	if err := f.repos.Questions.Create(ctx, f.question("q1")); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	page, total, err := f.repos.Questions.List(ctx, models.QuestionFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page) != 2 || page[0].Question != "q3" {
		t.Fatalf("unexpected first page: total=%d page=%+v", total, page)
	}
	page, _, _ = f.repos.Questions.List(ctx, models.QuestionFilter{Limit: 2, Offset: 2})
	if len(page) != 1 || page[0].Question != "q1" {
		t.Fatalf("unexpected second page: %+v", page)
	}
	page, _, _ = f.repos.Questions.List(ctx, models.QuestionFilter{Limit: 2, Offset: 10})
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(page))
	}

	first, _, _ := f.repos.Questions.List(ctx, models.QuestionFilter{})
	target := first[0]
	target.Question = "q1"
	if err := f.repos.Questions.Update(ctx, target); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on update, got %v", err)
	}
	target.ChapterID = uuid.New()
	target.Question = "q3 revised"
	if err := f.repos.Questions.Update(ctx, target); !errors.Is(err, repositories.ErrReferenced) {
		t.Fatalf("expected ErrReferenced on update, got %v", err)
	}
}
