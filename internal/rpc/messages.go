package rpc

import (
	"blog-content-service/internal/models"
	"errors"
)

var (
	ErrUnsetPayload     = errors.New("request carries no payload")
	ErrAmbiguousPayload = errors.New("request carries more than one payload")
)

// Payload types of DeleteRequest.
type (
	ArticleID  int64
	CategoryID int64
	TagID      int64
)

// QueryRequest selects exactly one of the three entity filters.
type QueryRequest struct {
	QueryArticle  *models.QueryArticle  `json:"query_article,omitempty"`
	QueryCategory *models.QueryCategory `json:"query_category,omitempty"`
	QueryTag      *models.QueryTag      `json:"query_tag,omitempty"`
}

// Payload returns *models.QueryArticle, *models.QueryCategory or *models.QueryTag.
func (r *QueryRequest) Payload() (any, error) {
	return pick(
		candidate{r.QueryArticle != nil, r.QueryArticle},
		candidate{r.QueryCategory != nil, r.QueryCategory},
		candidate{r.QueryTag != nil, r.QueryTag},
	)
}

type QueryResponse struct {
	Articles   []models.Article  `json:"articles,omitempty"`
	Categories []models.Category `json:"categories,omitempty"`
	Tags       []models.Tag      `json:"tags,omitempty"`
}

// CreateRequest carries exactly one new entity.
type CreateRequest struct {
	Article  *models.Article  `json:"article,omitempty"`
	Category *models.Category `json:"category,omitempty"`
	Tag      *models.Tag      `json:"tag,omitempty"`
}

// Payload returns *models.Article, *models.Category or *models.Tag.
func (r *CreateRequest) Payload() (any, error) {
	return pick(
		candidate{r.Article != nil, r.Article},
		candidate{r.Category != nil, r.Category},
		candidate{r.Tag != nil, r.Tag},
	)
}

type CreateResponse struct {
	ID int64 `json:"id"`
}

// UpdateRequest carries exactly one entity holding the fields to change.
type UpdateRequest struct {
	Article  *models.Article  `json:"article,omitempty"`
	Category *models.Category `json:"category,omitempty"`
	Tag      *models.Tag      `json:"tag,omitempty"`
}

// Payload returns *models.Article, *models.Category or *models.Tag.
func (r *UpdateRequest) Payload() (any, error) {
	return pick(
		candidate{r.Article != nil, r.Article},
		candidate{r.Category != nil, r.Category},
		candidate{r.Tag != nil, r.Tag},
	)
}

type UpdateResponse struct {
	ID int64 `json:"id"`
}

// DeleteRequest names exactly one entity by id.
type DeleteRequest struct {
	ArticleID  *int64 `json:"article_id,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
	TagID      *int64 `json:"tag_id,omitempty"`
}

// Payload returns an ArticleID, CategoryID or TagID.
func (r *DeleteRequest) Payload() (any, error) {
	var article, category, tag any
	if r.ArticleID != nil {
		article = ArticleID(*r.ArticleID)
	}
	if r.CategoryID != nil {
		category = CategoryID(*r.CategoryID)
	}
	if r.TagID != nil {
		tag = TagID(*r.TagID)
	}

	return pick(
		candidate{r.ArticleID != nil, article},
		candidate{r.CategoryID != nil, category},
		candidate{r.TagID != nil, tag},
	)
}

func DeleteArticleRequest(id int64) *DeleteRequest {
	return &DeleteRequest{ArticleID: &id}
}

func DeleteCategoryRequest(id int64) *DeleteRequest {
	return &DeleteRequest{CategoryID: &id}
}

func DeleteTagRequest(id int64) *DeleteRequest {
	return &DeleteRequest{TagID: &id}
}

type DeleteResponse struct {
	ID int64 `json:"id"`
}

type candidate struct {
	set   bool
	value any
}

// pick returns the value of the only set candidate.
func pick(candidates ...candidate) (any, error) {
	var chosen any
	set := 0
	for _, c := range candidates {
		if c.set {
			chosen = c.value
			set++
		}
	}

	switch set {
	case 0:
		return nil, ErrUnsetPayload
	case 1:
		return chosen, nil
	default:
		return nil, ErrAmbiguousPayload
	}
}
