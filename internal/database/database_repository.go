package database

import (
	"blog-content-service/internal/models"
	"blog-content-service/internal/utils"
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"slices"
	"strings"
)

const articleColumns = "id, title, content, summary, state, category_id, created_at, updated_at"

// Repository is the content store: the sole writer of articles, categories, tags
// and the article_tag join table.
//
// Failures of the database surface as *StorageError, refused requests wrap ErrInvalidRequest
// and updates of absent rows wrap ErrNotFound. Deletes of absent ids succeed.
type Repository interface {

	// QueryArticles returns the articles matching query ordered by id, each with its tag ids.
	// Tags in query.TagsID are combined with AND semantics.
	QueryArticles(ctx context.Context, query models.QueryArticle) ([]models.Article, error)

	// CreateArticle stores article and its tag links in one transaction and returns the new id.
	CreateArticle(ctx context.Context, article models.Article) (int64, error)

	// UpdateArticle applies the non-empty fields of article and reconciles its tag links.
	UpdateArticle(ctx context.Context, article models.Article) (int64, error)

	// DeleteArticle removes the article and its tag links.
	DeleteArticle(ctx context.Context, id int64) error

	QueryCategories(ctx context.Context, query models.QueryCategory) ([]models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (int64, error)
	UpdateCategory(ctx context.Context, category models.Category) (int64, error)

	// DeleteCategory removes the category only; articles referencing it are kept.
	DeleteCategory(ctx context.Context, id int64) error

	QueryTags(ctx context.Context, query models.QueryTag) ([]models.Tag, error)
	CreateTag(ctx context.Context, tag models.Tag) (int64, error)
	UpdateTag(ctx context.Context, tag models.Tag) (int64, error)

	// DeleteTag removes the tag and every link to it.
	DeleteTag(ctx context.Context, id int64) error

	// TagToArticles returns the ids of the articles linked to the tag.
	TagToArticles(ctx context.Context, tagId int64) ([]int64, error)

	// ArticleToTags returns the ids of the tags linked to the article.
	ArticleToTags(ctx context.Context, articleId int64) ([]int64, error)
}

// NullRepository is a no-op implementation of the Repository interface.
// Useful for testing or default wiring when no database operations are required.
type NullRepository struct{}

func (n *NullRepository) QueryArticles(ctx context.Context, query models.QueryArticle) ([]models.Article, error) {
	return []models.Article{}, nil
}

func (n *NullRepository) CreateArticle(ctx context.Context, article models.Article) (int64, error) {
	return 0, nil
}

func (n *NullRepository) UpdateArticle(ctx context.Context, article models.Article) (int64, error) {
	return article.ID, nil
}

func (n *NullRepository) DeleteArticle(ctx context.Context, id int64) error {
	return nil
}

func (n *NullRepository) QueryCategories(ctx context.Context, query models.QueryCategory) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (n *NullRepository) CreateCategory(ctx context.Context, category models.Category) (int64, error) {
	return 0, nil
}

func (n *NullRepository) UpdateCategory(ctx context.Context, category models.Category) (int64, error) {
	return category.ID, nil
}

func (n *NullRepository) DeleteCategory(ctx context.Context, id int64) error {
	return nil
}

func (n *NullRepository) QueryTags(ctx context.Context, query models.QueryTag) ([]models.Tag, error) {
	return []models.Tag{}, nil
}

func (n *NullRepository) CreateTag(ctx context.Context, tag models.Tag) (int64, error) {
	return 0, nil
}

func (n *NullRepository) UpdateTag(ctx context.Context, tag models.Tag) (int64, error) {
	return tag.ID, nil
}

func (n *NullRepository) DeleteTag(ctx context.Context, id int64) error {
	return nil
}

func (n *NullRepository) TagToArticles(ctx context.Context, tagId int64) ([]int64, error) {
	return []int64{}, nil
}

func (n *NullRepository) ArticleToTags(ctx context.Context, articleId int64) ([]int64, error) {
	return []int64{}, nil
}

// ensure NullRepository implements Repository
var _ Repository = &NullRepository{}

// GormRepository provides a GORM-based implementation of the Repository interface.
// The embedded *gorm.DB wraps the shared connection pool and is safe for concurrent use.
type GormRepository struct {
	*gorm.DB
}

// ensure GormRepository implements Repository
var _ Repository = &GormRepository{}

// ####################### articles

func (g *GormRepository) QueryArticles(ctx context.Context, query models.QueryArticle) ([]models.Article, error) {
	db := g.DB.WithContext(ctx)

	if tagIds := utils.Unique(query.TagsID); len(tagIds) > 0 {
		var articleIds []int64
		err := db.
			Raw(`SELECT article_id FROM article_tag WHERE tag_id IN ? GROUP BY article_id HAVING COUNT(DISTINCT tag_id) = ?`,
				tagIds, len(tagIds)).
			Scan(&articleIds).
			Error
		if err != nil {
			return nil, storageError("QueryArticles", err)
		}

		// nothing carries all requested tags and no explicit id widens the result
		if len(articleIds) == 0 && len(query.Ids) == 0 {
			return []models.Article{}, nil
		}
		query.Ids = append(slices.Clone(query.Ids), articleIds...)
	}

	p := ArticlePredicate(query)

	var articles []models.Article
	err := db.
		Raw("SELECT "+articleColumns+" FROM articles WHERE "+p.SQL+" ORDER BY id", p.Args...).
		Scan(&articles).
		Error
	if err != nil {
		return nil, storageError("QueryArticles", err)
	}

	if len(articles) == 0 {
		return []models.Article{}, nil
	}

	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	var links []models.ArticleTag
	err = db.
		Raw("SELECT article_id, tag_id FROM article_tag WHERE article_id IN ? ORDER BY article_id, tag_id", ids).
		Scan(&links).
		Error
	if err != nil {
		return nil, storageError("QueryArticles", err)
	}

	tagsByArticle := make(map[int64][]int64, len(articles))
	for _, link := range links {
		tagsByArticle[link.ArticleID] = append(tagsByArticle[link.ArticleID], link.TagID)
	}
	for i := range articles {
		articles[i].TagsID = tagsByArticle[articles[i].ID]
		if articles[i].TagsID == nil {
			articles[i].TagsID = []int64{}
		}
	}

	return articles, nil
}

func (g *GormRepository) CreateArticle(ctx context.Context, article models.Article) (int64, error) {
	article.Prepare()
	if err := article.Validate(); err != nil {
		return 0, invalidRequest("article: %v", err)
	}

	var id int64
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Raw(`INSERT INTO articles (title, content, summary, state, category_id, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, now(), now()) RETURNING id`,
				article.Title, article.Content, article.Summary, article.State, article.CategoryID).
			Scan(&id).
			Error
		if err != nil {
			return err
		}

		return insertArticleTags(tx, id, article.TagsID)
	})
	if err != nil {
		return 0, storageError("CreateArticle", err)
	}

	return id, nil
}

func (g *GormRepository) UpdateArticle(ctx context.Context, article models.Article) (int64, error) {
	article.PrepareForUpdate()
	if err := article.ValidateForUpdate(); err != nil {
		return 0, invalidRequest("article: %v", err)
	}

	clause, ok := UpdateClause(article)
	if !ok {
		return 0, invalidRequest("article %d: no field to update", article.ID)
	}

	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the row lock serializes concurrent reconciliations of the same article
		var locked []int64
		err := tx.
			Raw("SELECT id FROM articles WHERE id = ? FOR UPDATE", article.ID).
			Scan(&locked).
			Error
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return fmt.Errorf("article %d: %w", article.ID, ErrNotFound)
		}

		err = tx.
			Exec("UPDATE articles SET "+clause.SQL+" WHERE id = ?", append(clause.Args, article.ID)...).
			Error
		if err != nil {
			return err
		}

		var stored []int64
		err = tx.
			Raw("SELECT tag_id FROM article_tag WHERE article_id = ?", article.ID).
			Scan(&stored).
			Error
		if err != nil {
			return err
		}

		toInsert, toDelete := ReconcileTags(stored, article.TagsID)
		if err := insertArticleTags(tx, article.ID, toInsert); err != nil {
			return err
		}
		if len(toDelete) == 0 {
			return nil
		}
		return tx.
			Exec("DELETE FROM article_tag WHERE article_id = ? AND tag_id IN ?", article.ID, toDelete).
			Error
	})
	if errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, storageError("UpdateArticle", err)
	}

	return article.ID, nil
}

func (g *GormRepository) DeleteArticle(ctx context.Context, id int64) error {
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM article_tag WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM articles WHERE id = ?", id).Error
	})

	return storageError("DeleteArticle", err)
}

// insertArticleTags links tagIds to the article with a single multi-row insert.
func insertArticleTags(tx *gorm.DB, articleId int64, tagIds []int64) error {
	if len(tagIds) == 0 {
		return nil
	}

	rows := make([]string, 0, len(tagIds))
	args := make([]any, 0, 2*len(tagIds))
	for _, tagId := range tagIds {
		rows = append(rows, "(?, ?)")
		args = append(args, articleId, tagId)
	}

	return tx.
		Exec("INSERT INTO article_tag (article_id, tag_id) VALUES "+strings.Join(rows, ", "), args...).
		Error
}

// ####################### categories

func (g *GormRepository) QueryCategories(ctx context.Context, query models.QueryCategory) ([]models.Category, error) {
	p := CategoryPredicate(query)

	categories := []models.Category{}
	err := g.DB.
		WithContext(ctx).
		Raw("SELECT id, name FROM categories WHERE "+p.SQL+" ORDER BY id", p.Args...).
		Scan(&categories).
		Error
	if err != nil {
		return nil, storageError("QueryCategories", err)
	}

	return categories, nil
}

func (g *GormRepository) CreateCategory(ctx context.Context, category models.Category) (int64, error) {
	category.Prepare()
	if err := category.Validate(); err != nil {
		return 0, invalidRequest("category: %v", err)
	}

	return g.createNamed(ctx, "CreateCategory", "categories", category.Name)
}

func (g *GormRepository) UpdateCategory(ctx context.Context, category models.Category) (int64, error) {
	category.Prepare()
	if err := category.ValidateForUpdate(); err != nil {
		return 0, invalidRequest("category: %v", err)
	}

	return g.updateNamed(ctx, "UpdateCategory", "categories", category.ID, category.Name)
}

func (g *GormRepository) DeleteCategory(ctx context.Context, id int64) error {
	err := g.DB.
		WithContext(ctx).
		Exec("DELETE FROM categories WHERE id = ?", id).
		Error

	return storageError("DeleteCategory", err)
}

// ####################### tags

func (g *GormRepository) QueryTags(ctx context.Context, query models.QueryTag) ([]models.Tag, error) {
	p := TagPredicate(query)

	tags := []models.Tag{}
	err := g.DB.
		WithContext(ctx).
		Raw("SELECT id, name FROM tags WHERE "+p.SQL+" ORDER BY id", p.Args...).
		Scan(&tags).
		Error
	if err != nil {
		return nil, storageError("QueryTags", err)
	}

	return tags, nil
}

func (g *GormRepository) CreateTag(ctx context.Context, tag models.Tag) (int64, error) {
	tag.Prepare()
	if err := tag.Validate(); err != nil {
		return 0, invalidRequest("tag: %v", err)
	}

	return g.createNamed(ctx, "CreateTag", "tags", tag.Name)
}

func (g *GormRepository) UpdateTag(ctx context.Context, tag models.Tag) (int64, error) {
	tag.Prepare()
	if err := tag.ValidateForUpdate(); err != nil {
		return 0, invalidRequest("tag: %v", err)
	}

	return g.updateNamed(ctx, "UpdateTag", "tags", tag.ID, tag.Name)
}

func (g *GormRepository) DeleteTag(ctx context.Context, id int64) error {
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM article_tag WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM tags WHERE id = ?", id).Error
	})

	return storageError("DeleteTag", err)
}

func (g *GormRepository) createNamed(ctx context.Context, op, table, name string) (int64, error) {
	var id int64
	err := g.DB.
		WithContext(ctx).
		Raw("INSERT INTO "+table+" (name) VALUES (?) RETURNING id", name).
		Scan(&id).
		Error
	if err != nil {
		return 0, storageError(op, err)
	}

	return id, nil
}

func (g *GormRepository) updateNamed(ctx context.Context, op, table string, id int64, name string) (int64, error) {
	result := g.DB.
		WithContext(ctx).
		Exec("UPDATE "+table+" SET name = ? WHERE id = ?", name, id)
	if result.Error != nil {
		return 0, storageError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}

	return id, nil
}

// ####################### associations

func (g *GormRepository) TagToArticles(ctx context.Context, tagId int64) ([]int64, error) {
	articleIds := []int64{}
	err := g.DB.
		WithContext(ctx).
		Raw("SELECT article_id FROM article_tag WHERE tag_id = ? ORDER BY article_id", tagId).
		Scan(&articleIds).
		Error
	if err != nil {
		return nil, storageError("TagToArticles", err)
	}

	return articleIds, nil
}

func (g *GormRepository) ArticleToTags(ctx context.Context, articleId int64) ([]int64, error) {
	tagIds := []int64{}
	err := g.DB.
		WithContext(ctx).
		Raw("SELECT tag_id FROM article_tag WHERE article_id = ? ORDER BY tag_id", articleId).
		Scan(&tagIds).
		Error
	if err != nil {
		return nil, storageError("ArticleToTags", err)
	}

	return tagIds, nil
}
