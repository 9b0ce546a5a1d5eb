package models

import (
	"blog-content-service/internal/utils"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// SummaryMaxLength is the number of characters kept when a summary is derived from content.
const SummaryMaxLength = 255

// ArticleState is the publication state of an article.
// In PostgreSQL it is stored as the enum type article_state using the lowercase labels.
type ArticleState int32

const (
	ArticleStateUnspecified ArticleState = 0
	ArticleStatePublished   ArticleState = 1
	ArticleStateHidden      ArticleState = 2
)

var articleStateLabels = map[ArticleState]string{
	ArticleStateUnspecified: "unspecified",
	ArticleStatePublished:   "published",
	ArticleStateHidden:      "hidden",
}

func (s ArticleState) String() string {
	if label, ok := articleStateLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("ArticleState(%d)", int32(s))
}

// Valid reports whether s is one of the known states.
func (s ArticleState) Valid() bool {
	_, ok := articleStateLabels[s]
	return ok
}

func (s ArticleState) Value() (driver.Value, error) {
	label, ok := articleStateLabels[s]
	if !ok {
		return nil, fmt.Errorf("unknown article state %d", int32(s))
	}
	return label, nil
}

func (s *ArticleState) Scan(src any) error {
	var label string
	switch v := src.(type) {
	case string:
		label = v
	case []byte:
		label = string(v)
	case nil:
		*s = ArticleStateUnspecified
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ArticleState", src)
	}

	for state, l := range articleStateLabels {
		if l == label {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown article state label %q", label)
}

type Article struct {
	ID         int64        `gorm:"primaryKey" json:"id" validate:"gte=0"`
	Title      string       `gorm:"not null" json:"title" validate:"required"`
	Content    string       `gorm:"type:text;not null;default:''" json:"content"`
	Summary    string       `gorm:"type:varchar(255);not null;default:''" json:"summary" validate:"max=255"`
	State      ArticleState `gorm:"type:article_state;not null;default:'unspecified'" json:"state" validate:"article_state"`
	CategoryID int64        `gorm:"not null;index" json:"category_id" validate:"gt=0"`
	CreatedAt  time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:now()" json:"updated_at"`
	TagsID     []int64      `gorm:"-" json:"tags_id" validate:"dive,gt=0"`
}

// Prepare applies the defaults an article gets before it is stored:
// the title is trimmed, an absent summary is derived from the content
// and duplicate tag ids are dropped.
func (a *Article) Prepare() {
	a.Title = strings.TrimSpace(a.Title)
	if len(a.Summary) == 0 {
		a.Summary = DeriveSummary(a.Content)
	}
	a.TagsID = utils.Unique(a.TagsID)
}

// PrepareForUpdate normalizes a sparse update the way Prepare does for a create.
// A title that trims to nothing is left untouched by the update.
func (a *Article) PrepareForUpdate() {
	a.Title = strings.TrimSpace(a.Title)
	a.TagsID = utils.Unique(a.TagsID)
}

// Validate checks an article that is about to be created.
func (a *Article) Validate() error {
	return validate.Struct(a)
}

// ValidateForUpdate checks an article that carries a sparse update.
// Empty fields are allowed since they mean "leave untouched".
func (a *Article) ValidateForUpdate() error {
	if err := validate.Var(a.ID, "gt=0"); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if err := validate.Var(a.Summary, "max=255"); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := validate.Var(a.State, "article_state"); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	if err := validate.Var(a.CategoryID, "gte=0"); err != nil {
		return fmt.Errorf("category_id: %w", err)
	}
	if err := validate.Var(a.TagsID, "dive,gt=0"); err != nil {
		return fmt.Errorf("tags_id: %w", err)
	}
	return nil
}

// DeriveSummary returns the first SummaryMaxLength characters of content.
// It cuts on characters, never inside a multi-byte sequence, and ignores word boundaries.
func DeriveSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryMaxLength {
		return content
	}
	return string(runes[:SummaryMaxLength])
}

// ArticleTag links an article to a tag.
type ArticleTag struct {
	ArticleID int64    `gorm:"primaryKey;autoIncrement:false" json:"article_id"`
	TagID     int64    `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Article   *Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
	Tag       *Tag     `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ArticleTag) TableName() string {
	return "article_tag"
}
