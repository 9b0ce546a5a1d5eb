package database_test

import (
	"blog-content-service/internal/database"
	"blog-content-service/internal/environment"
	"blog-content-service/internal/logging"
	"blog-content-service/internal/models"
	"context"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"
	"regexp"
	"strings"
	"testing"
	"time"
)

var created = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

var articleColumns = []string{"id", "title", "content", "summary", "state", "category_id", "created_at", "updated_at"}

// newMockedEnv returns an environment backed by a GormRepository on top of sqlmock.
// Unmet expectations fail the test once it is done.
func newMockedEnv(t *testing.T) (*environment.Env, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error creating sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: zapgorm2.New(zap.NewNop())})
	if err != nil {
		t.Fatalf("error initializing mocked database: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlMock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		_ = mockDb.Close()
	})

	env := environment.Environment(&database.GormRepository{DB: db}, &logging.NullLogger{})
	return env, sqlMock
}

func exact(sql string) string {
	return "^" + regexp.QuoteMeta(sql) + "$"
}

// ####################### articles

func TestQueryArticles_ByTags(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("SELECT article_id FROM article_tag WHERE tag_id IN ($1,$2) GROUP BY article_id HAVING COUNT(DISTINCT tag_id) = $3")).
		WithArgs(1, 2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"article_id"}).AddRow(3).AddRow(5))

	sqlMock.
		ExpectQuery(exact("SELECT id, title, content, summary, state, category_id, created_at, updated_at FROM articles WHERE id IN ($1,$2) AND TRUE AND TRUE AND TRUE AND TRUE ORDER BY id")).
		WithArgs(3, 5).
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(3, "First", "content", "content", "published", 1, created, created).
			AddRow(5, "Second", "", "", "hidden", 2, created, created))

	sqlMock.
		ExpectQuery(exact("SELECT article_id, tag_id FROM article_tag WHERE article_id IN ($1,$2) ORDER BY article_id, tag_id")).
		WithArgs(3, 5).
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "tag_id"}).
			AddRow(3, 1).AddRow(3, 2).
			AddRow(5, 1).AddRow(5, 2).AddRow(5, 7))

	got, err := env.QueryArticles(context.Background(), models.QueryArticle{TagsID: []int64{1, 2, 1}})
	if err != nil {
		t.Fatalf("QueryArticles error: %v", err)
	}

	want := []models.Article{
		{ID: 3, Title: "First", Content: "content", Summary: "content", State: models.ArticleStatePublished, CategoryID: 1, CreatedAt: created, UpdatedAt: created, TagsID: []int64{1, 2}},
		{ID: 5, Title: "Second", State: models.ArticleStateHidden, CategoryID: 2, CreatedAt: created, UpdatedAt: created, TagsID: []int64{1, 2, 7}},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestQueryArticles_NoArticleCarriesAllTags(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery("^SELECT article_id FROM article_tag WHERE tag_id IN").
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"article_id"}))

	got, err := env.QueryArticles(context.Background(), models.QueryArticle{TagsID: []int64{4}})
	if err != nil {
		t.Fatalf("QueryArticles error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want an empty result", got)
	}
}

func TestQueryArticles_TagsWidenExplicitIds(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery("^SELECT article_id FROM article_tag WHERE tag_id IN").
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"article_id"}))

	sqlMock.
		ExpectQuery(exact("SELECT id, title, content, summary, state, category_id, created_at, updated_at FROM articles WHERE id IN ($1) AND TRUE AND TRUE AND TRUE AND TRUE ORDER BY id")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(articleColumns))

	got, err := env.QueryArticles(context.Background(), models.QueryArticle{Ids: []int64{9}, TagsID: []int64{4}})
	if err != nil {
		t.Fatalf("QueryArticles error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no articles", got)
	}
}

func TestQueryArticles_AllFilters(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	year := time.Date(2023, time.May, 5, 0, 0, 0, 0, time.Local)
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local)

	sqlMock.
		ExpectQuery(exact("SELECT id, title, content, summary, state, category_id, created_at, updated_at FROM articles WHERE TRUE AND title LIKE $1 AND state = $2 AND created_at >= $3 AND created_at < $4 AND category_id = $5 ORDER BY id")).
		WithArgs("%rust%", "published", start, start.Add(365*24*time.Hour), 2).
		WillReturnRows(sqlmock.NewRows(articleColumns))

	got, err := env.QueryArticles(context.Background(), models.QueryArticle{
		Title:       "rust",
		State:       models.ArticleStatePublished,
		CreatedYear: &year,
		CategoryID:  2,
	})
	if err != nil {
		t.Fatalf("QueryArticles error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want an empty result", got)
	}
}

func TestQueryArticles_StorageError(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery("^SELECT id, title").
		WillReturnError(errors.New("connection reset"))

	_, err := env.QueryArticles(context.Background(), models.QueryArticle{})

	var storageErr *database.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("got error %v, want a StorageError", err)
	}
	if storageErr.Op != "QueryArticles" {
		t.Errorf("got op %q, want QueryArticles", storageErr.Op)
	}
}

func TestCreateArticle(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery("^INSERT INTO articles \\(title, content, summary, state, category_id, created_at, updated_at\\)").
		WithArgs("Hello", "content", "content", "published", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	sqlMock.
		ExpectExec(exact("INSERT INTO article_tag (article_id, tag_id) VALUES ($1, $2), ($3, $4)")).
		WithArgs(7, 1, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	sqlMock.ExpectCommit()

	id, err := env.CreateArticle(context.Background(), models.Article{
		Title:      " Hello ",
		Content:    "content",
		State:      models.ArticleStatePublished,
		CategoryID: 1,
		TagsID:     []int64{1, 2, 2},
	})
	if err != nil {
		t.Fatalf("CreateArticle error: %v", err)
	}
	if id != 7 {
		t.Errorf("got id %d, want 7", id)
	}
}

func TestCreateArticle_RollbackOnLinkFailure(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery("^INSERT INTO articles").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	sqlMock.
		ExpectExec("^INSERT INTO article_tag").
		WillReturnError(errors.New("foreign key violation"))
	sqlMock.ExpectRollback()

	_, err := env.CreateArticle(context.Background(), models.Article{Title: "Hello", CategoryID: 1, TagsID: []int64{99}})

	var storageErr *database.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("got error %v, want a StorageError", err)
	}
}

func TestCreateArticle_InvalidRequest(t *testing.T) {
	env, _ := newMockedEnv(t)

	tests := []struct {
		name    string
		article models.Article
	}{
		{name: "blank title", article: models.Article{Title: "   ", CategoryID: 1}},
		{name: "no category", article: models.Article{Title: "Hello"}},
		{name: "sentinel tag", article: models.Article{Title: "Hello", CategoryID: 1, TagsID: []int64{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.CreateArticle(context.Background(), tt.article)
			if !errors.Is(err, database.ErrInvalidRequest) {
				t.Errorf("got error %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestUpdateArticle_NothingToUpdate(t *testing.T) {
	env, _ := newMockedEnv(t)

	_, err := env.UpdateArticle(context.Background(), models.Article{ID: 1, TagsID: []int64{1}})
	if !errors.Is(err, database.ErrInvalidRequest) {
		t.Errorf("got error %v, want ErrInvalidRequest", err)
	}
}

func TestUpdateArticle_InvalidRequest(t *testing.T) {
	// no expectations: a refused update never reaches the database
	env, _ := newMockedEnv(t)

	tests := []struct {
		name    string
		article models.Article
	}{
		{name: "summary too long", article: models.Article{ID: 1, Summary: strings.Repeat("x", 300)}},
		{name: "blank title only", article: models.Article{ID: 1, Title: "   "}},
		{name: "unknown state", article: models.Article{ID: 1, Title: "new", State: 5}},
		{name: "missing id", article: models.Article{Title: "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.UpdateArticle(context.Background(), tt.article)
			if !errors.Is(err, database.ErrInvalidRequest) {
				t.Errorf("got error %v, want ErrInvalidRequest", err)
			}

			var storageErr *database.StorageError
			if errors.As(err, &storageErr) {
				t.Errorf("got StorageError %v, want a refused request", err)
			}
		})
	}
}

func TestUpdateArticle_TrimsTitle(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery("FOR UPDATE$").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	sqlMock.
		ExpectExec(exact("UPDATE articles SET title = $1, updated_at = now() WHERE id = $2")).
		WithArgs("new", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.
		ExpectQuery("^SELECT tag_id FROM article_tag").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id"}))
	sqlMock.ExpectCommit()

	if _, err := env.UpdateArticle(context.Background(), models.Article{ID: 4, Title: "  new  "}); err != nil {
		t.Fatalf("UpdateArticle error: %v", err)
	}
}

func TestUpdateArticle_NotFound(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery(exact("SELECT id FROM articles WHERE id = $1 FOR UPDATE")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	sqlMock.ExpectRollback()

	_, err := env.UpdateArticle(context.Background(), models.Article{ID: 42, Title: "new"})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}

	var storageErr *database.StorageError
	if errors.As(err, &storageErr) {
		t.Errorf("got StorageError %v, want a plain not found", err)
	}
}

func TestUpdateArticle_ReconcilesTags(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery(exact("SELECT id FROM articles WHERE id = $1 FOR UPDATE")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	sqlMock.
		ExpectExec(exact("UPDATE articles SET title = $1, updated_at = now() WHERE id = $2")).
		WithArgs("new", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.
		ExpectQuery(exact("SELECT tag_id FROM article_tag WHERE article_id = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id"}).AddRow(1).AddRow(2))
	sqlMock.
		ExpectExec(exact("INSERT INTO article_tag (article_id, tag_id) VALUES ($1, $2)")).
		WithArgs(4, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.
		ExpectExec(exact("DELETE FROM article_tag WHERE article_id = $1 AND tag_id IN ($2)")).
		WithArgs(4, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	id, err := env.UpdateArticle(context.Background(), models.Article{ID: 4, Title: "new", TagsID: []int64{2, 3}})
	if err != nil {
		t.Fatalf("UpdateArticle error: %v", err)
	}
	if id != 4 {
		t.Errorf("got id %d, want 4", id)
	}
}

func TestUpdateArticle_ContentDerivesSummary(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectQuery("FOR UPDATE$").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	sqlMock.
		ExpectExec(exact("UPDATE articles SET content = $1, summary = $2, state = $3, updated_at = now() WHERE id = $4")).
		WithArgs("body", "body", "hidden", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.
		ExpectQuery("^SELECT tag_id FROM article_tag").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id"}))
	sqlMock.ExpectCommit()

	if _, err := env.UpdateArticle(context.Background(), models.Article{ID: 4, Content: "body", State: models.ArticleStateHidden}); err != nil {
		t.Fatalf("UpdateArticle error: %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectExec(exact("DELETE FROM article_tag WHERE article_id = $1")).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.
		ExpectExec(exact("DELETE FROM articles WHERE id = $1")).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectCommit()

	// deleting an absent article is not an error
	if err := env.DeleteArticle(context.Background(), 8); err != nil {
		t.Errorf("DeleteArticle error: %v", err)
	}
}

func TestDeleteArticle_StorageError(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectExec("^DELETE FROM article_tag").
		WillReturnError(errors.New("deadlock detected"))
	sqlMock.ExpectRollback()

	err := env.DeleteArticle(context.Background(), 8)

	var storageErr *database.StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "DeleteArticle" {
		t.Errorf("got error %v, want a StorageError of DeleteArticle", err)
	}
}

// ####################### categories and tags

func TestQueryCategories(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("SELECT id, name FROM categories WHERE TRUE AND name LIKE $1 ORDER BY id")).
		WithArgs("%ru%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "rust").AddRow(4, "ruby"))

	got, err := env.QueryCategories(context.Background(), models.QueryCategory{Name: "ru"})
	if err != nil {
		t.Fatalf("QueryCategories error: %v", err)
	}

	want := []models.Category{{ID: 1, Name: "rust"}, {ID: 4, Name: "ruby"}}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestCreateCategory(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("INSERT INTO categories (name) VALUES ($1) RETURNING id")).
		WithArgs("rust").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := env.CreateCategory(context.Background(), models.Category{Name: " rust "})
	if err != nil {
		t.Fatalf("CreateCategory error: %v", err)
	}
	if id != 3 {
		t.Errorf("got id %d, want 3", id)
	}

	if _, err := env.CreateCategory(context.Background(), models.Category{Name: ""}); !errors.Is(err, database.ErrInvalidRequest) {
		t.Errorf("got error %v, want ErrInvalidRequest", err)
	}
}

func TestUpdateCategory_NotFound(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectExec(exact("UPDATE categories SET name = $1 WHERE id = $2")).
		WithArgs("go", 11).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := env.UpdateCategory(context.Background(), models.Category{ID: 11, Name: "go"})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectExec(exact("DELETE FROM categories WHERE id = $1")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := env.DeleteCategory(context.Background(), 2); err != nil {
		t.Errorf("DeleteCategory error: %v", err)
	}
}

func TestCreateAndUpdateTag(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("INSERT INTO tags (name) VALUES ($1) RETURNING id")).
		WithArgs("go").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	sqlMock.
		ExpectExec(exact("UPDATE tags SET name = $1 WHERE id = $2")).
		WithArgs("golang", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := env.CreateTag(context.Background(), models.Tag{Name: "go"})
	if err != nil {
		t.Fatalf("CreateTag error: %v", err)
	}

	updated, err := env.UpdateTag(context.Background(), models.Tag{ID: id, Name: "golang"})
	if err != nil {
		t.Fatalf("UpdateTag error: %v", err)
	}
	if updated != 5 {
		t.Errorf("got id %d, want 5", updated)
	}
}

func TestQueryTags_ById(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("SELECT id, name FROM tags WHERE id IN ($1,$2) AND TRUE ORDER BY id")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "go"))

	got, err := env.QueryTags(context.Background(), models.QueryTag{Ids: []int64{1, 2}})
	if err != nil {
		t.Fatalf("QueryTags error: %v", err)
	}

	want := []models.Tag{{ID: 1, Name: "go"}}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestDeleteTag(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.ExpectBegin()
	sqlMock.
		ExpectExec(exact("DELETE FROM article_tag WHERE tag_id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	sqlMock.
		ExpectExec(exact("DELETE FROM tags WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	if err := env.DeleteTag(context.Background(), 5); err != nil {
		t.Errorf("DeleteTag error: %v", err)
	}
}

// ####################### associations

func TestTagToArticles(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("SELECT article_id FROM article_tag WHERE tag_id = $1 ORDER BY article_id")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"article_id"}).AddRow(1).AddRow(4))

	got, err := env.TagToArticles(context.Background(), 2)
	if err != nil {
		t.Fatalf("TagToArticles error: %v", err)
	}

	want := []int64{1, 4}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestArticleToTags_Empty(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery(exact("SELECT tag_id FROM article_tag WHERE article_id = $1 ORDER BY tag_id")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id"}))

	got, err := env.ArticleToTags(context.Background(), 3)
	if err != nil {
		t.Fatalf("ArticleToTags error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want an empty list", got)
	}
}

func TestArticleToTags_StorageError(t *testing.T) {
	env, sqlMock := newMockedEnv(t)

	sqlMock.
		ExpectQuery("^SELECT tag_id FROM article_tag").
		WillReturnError(errors.New("relation does not exist"))

	_, err := env.ArticleToTags(context.Background(), 3)

	var storageErr *database.StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "ArticleToTags" {
		t.Errorf("got error %v, want a StorageError of ArticleToTags", err)
	}
}
