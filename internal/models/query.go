package models

import "time"

// QueryArticle filters articles. Zero values mean "no filter on this field".
type QueryArticle struct {
	Ids         []int64      `json:"ids"`
	Title       string       `json:"title"`
	CreatedYear *time.Time   `json:"created_year,omitempty"`
	State       ArticleState `json:"state"`
	CategoryID  int64        `json:"category_id"`
	// TagsID selects articles holding all of the listed tags.
	TagsID []int64 `json:"tags_id"`
}

type QueryCategory struct {
	Ids  []int64 `json:"ids"`
	Name string  `json:"name"`
}

type QueryTag struct {
	Ids  []int64 `json:"ids"`
	Name string  `json:"name"`
}
