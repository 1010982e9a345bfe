package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/app/repositories/memory"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/helpers"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	ctx      context.Context
	repos    *repositories.Repositories
	svc      *Services
	admin    *models.User
	teacher  *models.User
	student  *models.User
	algebra  *models.Subject
	geometry *models.Subject
	grade    *models.Grade
	mcq      *models.QuestionType
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.NewRepositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	env := &testEnv{
		ctx:   context.Background(),
		repos: repos,
		svc:   NewServices(repos, jwtService, auth.NewPasswordHasher(bcrypt.MinCost), zerolog.Nop()),
	}

	env.admin = env.user(t, "admin@example.com", models.RoleAdmin)
	env.teacher = env.user(t, "teacher@example.com", models.RoleTeacher)
	env.student = env.user(t, "student@example.com", models.RoleStudent)

	var err error
	if env.algebra, err = env.svc.Subjects.CreateSubject(env.ctx, &dto.CreateSubjectRequest{Name: "Algebra", Description: "a"}); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	if env.geometry, err = env.svc.Subjects.CreateSubject(env.ctx, &dto.CreateSubjectRequest{Name: "Geometry", Description: "g"}); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	env.grade, err = env.svc.Grades.CreateGrade(env.ctx, &dto.CreateGradeRequest{
		Grade:    "10",
		Subjects: []string{env.algebra.ID.String(), env.geometry.ID.String()},
	})
	if err != nil {
		t.Fatalf("create grade: %v", err)
	}
	if env.mcq, err = env.svc.QuestionTypes.CreateQuestionType(env.ctx, &dto.CreateQuestionTypeRequest{Name: "MCQ", Description: "m"}); err != nil {
		t.Fatalf("create question type: %v", err)
	}
	return env
}

func (e *testEnv) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", Role: role}
	if err := e.repos.Users.Create(e.ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) chapter(t *testing.T, actor *models.User, name string) *models.Chapter {
	t.Helper()
	c, err := e.svc.Chapters.CreateChapter(e.ctx, actor, &dto.CreateChapterRequest{Grade: "10", Subject: "Algebra", ChapterName: name})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return c
}

func (e *testEnv) questionRequest(chapter *models.Chapter, text string) *dto.CreateQuestionRequest {
	return &dto.CreateQuestionRequest{
		Question:     text,
		Grade:        e.grade.ID.String(),
		Subject:      e.algebra.ID.String(),
		Chapter:      chapter.ID.String(),
		QuestionType: e.mcq.ID.String(),
		Description:  "warm-up",
	}
}

func expectStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d error, got nil", status)
	}
	if got := apperrors.StatusCode(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
	if message != "" && apperrors.ClientMessage(err) != message {
		t.Fatalf("expected message %q, got %q", message, apperrors.ClientMessage(err))
	}
}

func TestCreateGradePopulatesSubjectsAndRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)

	if len(env.grade.Subjects) != 2 || env.grade.Subjects[0].Name != "Algebra" {
		t.Fatalf("expected populated subjects, got %+v", env.grade.Subjects)
	}

	req := &dto.CreateGradeRequest{Grade: "10", Subjects: []string{env.algebra.ID.String()}}
	for i := 0; i < 2; i++ {
		_, err := env.svc.Grades.CreateGrade(env.ctx, req)
		expectStatus(t, err, http.StatusConflict, "Grade already exists")
	}
	grades, _ := env.svc.Grades.GetAllGrades(env.ctx)
	if len(grades) != 1 {
		t.Fatalf("duplicate create must not mutate state, got %d grades", len(grades))
	}
}

func TestCreateGradeValidatesSubjects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		subjects []string
		status   int
		message  string
	}{
		{"malformed", []string{env.algebra.ID.String(), "not-an-id"}, http.StatusBadRequest, "Invalid subject ID: not-an-id"},
		{"missing", []string{"8d0b7a8e-1f4c-4a55-9a57-3b6f0d7c2e11"}, http.StatusNotFound, "One or more subjects not found"},
		{"empty", []string{}, http.StatusBadRequest, "At least one subject is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Grades.CreateGrade(env.ctx, &dto.CreateGradeRequest{Grade: "11", Subjects: tt.subjects})
			expectStatus(t, err, tt.status, tt.message)
		})
	}
}

func TestChapterUniquenessIsScopedToCreator(t *testing.T) {
	env := newTestEnv(t)
	other := env.user(t, "other@example.com", models.RoleStudent)

	first := env.chapter(t, env.student, "Functions")
	if first.Grade == nil || first.Grade.Name != "10" || first.Subject == nil || first.Subject.Name != "Algebra" {
		t.Fatalf("expected populated grade and subject, got %+v", first)
	}
	if first.Creator == nil || first.Creator.ID != env.student.ID {
		t.Fatalf("expected populated creator, got %+v", first.Creator)
	}

	env.chapter(t, other, "Functions")

	_, err := env.svc.Chapters.CreateChapter(env.ctx, env.student, &dto.CreateChapterRequest{Grade: "10", Subject: "Algebra", ChapterName: "Functions"})
	expectStatus(t, err, http.StatusConflict, "Chapter already exists for this grade and subject")
}

func TestChapterReferencesByIDOrName(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.svc.Chapters.CreateChapter(env.ctx, env.teacher, &dto.CreateChapterRequest{
		Grade: env.grade.ID.String(), Subject: "Geometry", ChapterName: "Triangles",
	})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	if c.GradeID != env.grade.ID || c.SubjectID != env.geometry.ID {
		t.Fatalf("unexpected references %+v", c)
	}

	_, err = env.svc.Chapters.CreateChapter(env.ctx, env.teacher, &dto.CreateChapterRequest{Grade: "12", Subject: "Algebra", ChapterName: "X"})
	expectStatus(t, err, http.StatusNotFound, "Grade not found")

	_, err = env.svc.Chapters.CreateChapter(env.ctx, env.teacher, &dto.CreateChapterRequest{Grade: "10", Subject: "  ", ChapterName: "X"})
	expectStatus(t, err, http.StatusBadRequest, "Grade, subject, and chapter name cannot be empty")
}

func TestChapterListingIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	env.chapter(t, env.student, "Functions")
	env.chapter(t, env.teacher, "Limits")

	own, err := env.svc.Chapters.GetChapters(env.ctx, env.student)
	if err != nil || len(own) != 1 || own[0].ChapterName != "Functions" {
		t.Fatalf("expected only own chapter, got %+v (%v)", own, err)
	}
	all, _ := env.svc.Chapters.GetChapters(env.ctx, env.admin)
	if len(all) != 2 || all[0].ChapterName != "Limits" {
		t.Fatalf("expected both chapters newest first for admin, got %+v", all)
	}

	filtered, err := env.svc.Chapters.FilterChapters(env.ctx, env.admin, "10", "Geometry")
	if err != nil || len(filtered) != 0 {
		t.Fatalf("expected no geometry chapters, got %+v (%v)", filtered, err)
	}
	_, err = env.svc.Chapters.FilterChapters(env.ctx, env.admin, "10", "")
	expectStatus(t, err, http.StatusBadRequest, "Grade and subject are required")
}

func TestChapterOwnership(t *testing.T) {
	env := newTestEnv(t)
	c := env.chapter(t, env.teacher, "Functions")

	_, err := env.svc.Chapters.GetChapterByID(env.ctx, env.student, c.ID.String())
	expectStatus(t, err, http.StatusForbidden, "Forbidden: You can only access your own chapters")

	_, err = env.svc.Chapters.AuthorizeChapterUpdate(env.ctx, env.student, c.ID.String())
	expectStatus(t, err, http.StatusForbidden, "Forbidden: You can only update your own chapters")

	err = env.svc.Chapters.DeleteChapter(env.ctx, env.student, c.ID.String())
	expectStatus(t, err, http.StatusForbidden, "Forbidden: You can only delete your own chapters")

	_, err = env.svc.Chapters.GetChapterByID(env.ctx, env.student, "bogus")
	expectStatus(t, err, http.StatusBadRequest, "Invalid chapter ID")

	if _, err := env.svc.Chapters.GetChapterByID(env.ctx, env.admin, c.ID.String()); err != nil {
		t.Fatalf("admin must access any chapter: %v", err)
	}
}

func TestChapterUpdateKeepsCreatorScope(t *testing.T) {
	env := newTestEnv(t)
	mine := env.chapter(t, env.teacher, "Functions")
	env.chapter(t, env.teacher, "Limits")
	env.chapter(t, env.student, "Sequences")

	target, err := env.svc.Chapters.AuthorizeChapterUpdate(env.ctx, env.admin, mine.ID.String())
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	name := "Sequences"
	updated, err := env.svc.Chapters.ApplyChapterUpdate(env.ctx, target, &dto.UpdateChapterRequest{ChapterName: &name})
	if err != nil {
		t.Fatalf("another creator's key must not block the update: %v", err)
	}
	if updated.ChapterName != "Sequences" || updated.CreatedBy != env.teacher.ID {
		t.Fatalf("unexpected update result %+v", updated)
	}

	name = "Limits"
	_, err = env.svc.Chapters.ApplyChapterUpdate(env.ctx, target, &dto.UpdateChapterRequest{ChapterName: &name})
	expectStatus(t, err, http.StatusConflict, "Chapter already exists for this grade and subject")

	blank := " "
	_, err = env.svc.Chapters.ApplyChapterUpdate(env.ctx, target, &dto.UpdateChapterRequest{ChapterName: &blank})
	expectStatus(t, err, http.StatusBadRequest, "Chapter name cannot be empty")
}

func TestCreateQuestionReferenceValidation(t *testing.T) {
	env := newTestEnv(t)
	c := env.chapter(t, env.teacher, "Functions")
	missing := "8d0b7a8e-1f4c-4a55-9a57-3b6f0d7c2e11"

	tests := []struct {
		name    string
		mutate  func(r *dto.CreateQuestionRequest)
		status  int
		message string
	}{
		{"bad grade", func(r *dto.CreateQuestionRequest) { r.Grade = "x" }, http.StatusBadRequest, "Invalid grade ID"},
		{"bad subject", func(r *dto.CreateQuestionRequest) { r.Subject = "x" }, http.StatusBadRequest, "Invalid subject ID"},
		{"bad chapter", func(r *dto.CreateQuestionRequest) { r.Chapter = "x" }, http.StatusBadRequest, "Invalid chapter ID"},
		{"bad question type", func(r *dto.CreateQuestionRequest) { r.QuestionType = "x" }, http.StatusBadRequest, "Invalid question type ID"},
		{"format before existence", func(r *dto.CreateQuestionRequest) { r.Grade = missing; r.QuestionType = "x" }, http.StatusBadRequest, "Invalid question type ID"},
		{"missing grade", func(r *dto.CreateQuestionRequest) { r.Grade = missing }, http.StatusNotFound, "Grade not found"},
		{"missing chapter", func(r *dto.CreateQuestionRequest) { r.Chapter = missing }, http.StatusNotFound, "Chapter not found"},
		{"blank description", func(r *dto.CreateQuestionRequest) { r.Description = " " }, http.StatusBadRequest, "Question and description cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := env.questionRequest(c, "What is x?")
			tt.mutate(req)
			_, err := env.svc.Questions.CreateQuestion(env.ctx, env.teacher, req)
			expectStatus(t, err, tt.status, tt.message)
		})
	}
}

func TestQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c := env.chapter(t, env.teacher, "Functions")

	q, err := env.svc.Questions.CreateQuestion(env.ctx, env.teacher, env.questionRequest(c, "Solve x + 2 = 5"))
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.Chapter == nil || q.QuestionType == nil || q.Creator == nil {
		t.Fatalf("expected populated references, got %+v", q)
	}

	_, err = env.svc.Questions.CreateQuestion(env.ctx, env.student, env.questionRequest(c, "Solve x + 2 = 5"))
	expectStatus(t, err, http.StatusConflict, "Question already exists")

	_, err = env.svc.Questions.AuthorizeQuestionUpdate(env.ctx, env.student, q.ID.String())
	expectStatus(t, err, http.StatusForbidden, "Forbidden: You can only update your own questions")

	target, err := env.svc.Questions.AuthorizeQuestionUpdate(env.ctx, env.teacher, q.ID.String())
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	answer := "x = 3"
	bad := "nope"
	_, err = env.svc.Questions.ApplyQuestionUpdate(env.ctx, target, &dto.UpdateQuestionRequest{Answer: &answer, Chapter: &bad})
	expectStatus(t, err, http.StatusBadRequest, "Invalid chapter ID")

	updated, err := env.svc.Questions.ApplyQuestionUpdate(env.ctx, target, &dto.UpdateQuestionRequest{Answer: &answer})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Answer == nil || *updated.Answer != "x = 3" || updated.Question != "Solve x + 2 = 5" {
		t.Fatalf("sparse patch changed the wrong fields: %+v", updated)
	}

	if err := env.svc.Chapters.DeleteChapter(env.ctx, env.teacher, c.ID.String()); apperrors.StatusCode(err) != http.StatusConflict {
		t.Fatalf("chapter with questions must not be deleted, got %v", err)
	}

	if err := env.svc.Questions.DeleteQuestion(env.ctx, env.teacher, q.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = env.svc.Questions.GetQuestionByID(env.ctx, env.teacher, q.ID.String())
	expectStatus(t, err, http.StatusNotFound, "Question not found")
}

func TestListQuestionsPagesAndScopes(t *testing.T) {
	env := newTestEnv(t)
	c := env.chapter(t, env.teacher, "Functions")
	for _, text := range []string{"q1", "q2", "q3"} {
		if _, err := env.svc.Questions.CreateQuestion(env.ctx, env.teacher, env.questionRequest(c, text)); err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
	}

	page, total, err := env.svc.Questions.ListQuestions(env.ctx, env.teacher, QuestionListParams{Page: helpers.NewPage(1, 2)})
	if err != nil || total != 3 || len(page) != 2 {
		t.Fatalf("unexpected page: total=%d len=%d err=%v", total, len(page), err)
	}

	_, total, _ = env.svc.Questions.ListQuestions(env.ctx, env.student, QuestionListParams{})
	if total != 0 {
		t.Fatalf("student must not see teacher questions, got %d", total)
	}
	_, total, _ = env.svc.Questions.ListQuestions(env.ctx, env.admin, QuestionListParams{Chapter: c.ID.String()})
	if total != 3 {
		t.Fatalf("admin filter by chapter expected 3, got %d", total)
	}

	_, _, err = env.svc.Questions.ListQuestions(env.ctx, env.admin, QuestionListParams{Grade: "ten"})
	expectStatus(t, err, http.StatusBadRequest, "Invalid grade ID")
}

func TestTaxonomyDeleteIsRestricted(t *testing.T) {
	env := newTestEnv(t)
	env.chapter(t, env.teacher, "Functions")

	err := env.svc.Subjects.DeleteSubject(env.ctx, env.algebra.ID.String())
	expectStatus(t, err, http.StatusConflict, "")
	err = env.svc.Grades.DeleteGrade(env.ctx, env.grade.ID.String())
	expectStatus(t, err, http.StatusConflict, "Grade is still used by chapters or questions")

	if err := env.svc.QuestionTypes.DeleteQuestionType(env.ctx, env.mcq.ID.String()); err != nil {
		t.Fatalf("unused question type should delete: %v", err)
	}
	_, err = env.svc.QuestionTypes.GetQuestionTypeByID(env.ctx, env.mcq.ID.String())
	expectStatus(t, err, http.StatusNotFound, "Question type not found")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.svc.Auth.Register(env.ctx, &dto.RegisterRequest{Email: " New@Example.com ", Password: "secret123", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "new@example.com" || user.Role != models.RoleTeacher {
		t.Fatalf("unexpected user %+v", user)
	}

	_, err = env.svc.Auth.Register(env.ctx, &dto.RegisterRequest{Email: "new@example.com", Password: "secret123"})
	expectStatus(t, err, http.StatusConflict, "User with email already exists")

	_, err = env.svc.Auth.Register(env.ctx, &dto.RegisterRequest{Email: "boss@example.com", Password: "secret123", Role: models.RoleAdmin})
	expectStatus(t, err, http.StatusBadRequest, "Role must be teacher or student")

	_, err = env.svc.Auth.Login(env.ctx, &dto.LoginRequest{Email: "new@example.com", Password: "wrong"})
	expectStatus(t, err, http.StatusUnauthorized, "Invalid user credentials")

	_, err = env.svc.Auth.Login(env.ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	expectStatus(t, err, http.StatusNotFound, "User does not exist")

	resp, err := env.svc.Auth.Login(env.ctx, &dto.LoginRequest{Email: "NEW@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.ExpiresIn != 3600 {
		t.Fatalf("unexpected login response %+v", resp)
	}
	stored, _ := env.repos.Users.GetByID(env.ctx, user.ID)
	if stored.AccessToken == nil || *stored.AccessToken != resp.AccessToken {
		t.Fatal("login must store the issued token")
	}

	if err := env.svc.Auth.Logout(env.ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	stored, _ = env.repos.Users.GetByID(env.ctx, user.ID)
	if stored.AccessToken != nil {
		t.Fatal("logout must clear the stored token")
	}
}

func TestWriteErrorsHideInternalCauses(t *testing.T) {
	err := subjectErrors.translate(errors.New("connection reset"), "list subjects")
	expectStatus(t, err, http.StatusInternalServerError, "Internal server error")
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected internal kind, got %v", err)
	}
}

func TestWritesRejectOverlongText(t *testing.T) {
	env := newTestEnv(t)
	target := env.chapter(t, env.teacher, "Functions")

	long := strings.Repeat("x", 300)
	_, err := env.svc.Chapters.ApplyChapterUpdate(env.ctx, target, &dto.UpdateChapterRequest{ChapterName: &long})
	expectStatus(t, err, http.StatusBadRequest, "chapterName must be at most 200 characters")

	_, err = env.svc.Chapters.ApplyChapterUpdate(env.ctx, target, &dto.UpdateChapterRequest{BookName: &long})
	expectStatus(t, err, http.StatusBadRequest, "bookName must be at most 200 characters")

	_, err = env.svc.Chapters.CreateChapter(env.ctx, env.teacher, &dto.CreateChapterRequest{Grade: "10", Subject: "Algebra", ChapterName: long})
	expectStatus(t, err, http.StatusBadRequest, "chapterName must be at most 200 characters")

	stored, err := env.svc.Chapters.GetChapterByID(env.ctx, env.teacher, target.ID.String())
	if err != nil || stored.ChapterName != "Functions" || stored.BookName != nil {
		t.Fatalf("rejected updates must not change the chapter: %+v, %v", stored, err)
	}

	_, err = env.svc.Grades.CreateGrade(env.ctx, &dto.CreateGradeRequest{
		Grade:    strings.Repeat("g", 150),
		Subjects: []string{env.algebra.ID.String()},
	})
	expectStatus(t, err, http.StatusBadRequest, "grade must be at most 100 characters")

	_, err = env.svc.Auth.Register(env.ctx, &dto.RegisterRequest{Email: strings.Repeat("a", 250) + "@example.com", Password: "secret123"})
	expectStatus(t, err, http.StatusBadRequest, "email must be at most 255 characters")
}

func TestQuestionUpdateReportsTextClashFirst(t *testing.T) {
	env := newTestEnv(t)
	c := env.chapter(t, env.teacher, "Functions")

	if _, err := env.svc.Questions.CreateQuestion(env.ctx, env.teacher, env.questionRequest(c, "Solve x + 2 = 5")); err != nil {
		t.Fatalf("create question: %v", err)
	}
	second, err := env.svc.Questions.CreateQuestion(env.ctx, env.teacher, env.questionRequest(c, "Solve x - 2 = 5"))
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	text := "Solve x + 2 = 5"
	missing := "8d0b7a8e-1f4c-4a55-9a57-3b6f0d7c2e11"
	_, err = env.svc.Questions.ApplyQuestionUpdate(env.ctx, second, &dto.UpdateQuestionRequest{Question: &text, Grade: &missing})
	expectStatus(t, err, http.StatusConflict, "Question already exists")
}

func TestWriteErrorsMapOverlongValues(t *testing.T) {
	err := chapterErrors.translateWrite(fmt.Errorf("%w: value too long", repositories.ErrInvalidValue), "update chapter")
	expectStatus(t, err, http.StatusBadRequest, "A value exceeds the allowed length")
}
