package association

import (
	"blog-content-service/internal/api"
	"blog-content-service/internal/environment"
	"blog-content-service/internal/logging"
	"context"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
)

// Api exposes the article/tag association lookups of the content store as JSON.
type Api interface {

	// GetArticleTags lists the ids of the tags linked to an article
	GetArticleTags(c *gin.Context)

	// GetTagArticles lists the ids of the articles linked to a tag
	GetTagArticles(c *gin.Context)
}

type Controller struct {
	*environment.Env
}

// ensure Controller implements Api
var _ Api = &Controller{}

// GetArticleTags
//
// @Router /associations/articles/{id}/tags [get]
func (ac *Controller) GetArticleTags(c *gin.Context) {
	ac.lookup(c, "article", ac.ArticleToTags)
}

// GetTagArticles
//
// @Router /associations/tags/{id}/articles [get]
func (ac *Controller) GetTagArticles(c *gin.Context) {
	ac.lookup(c, "tag", ac.TagToArticles)
}

func (ac *Controller) lookup(c *gin.Context, entity string, find func(ctx context.Context, id int64) ([]int64, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponsef("invalid %s id %q", entity, c.Param("id")))
		return
	}

	ids, err := find(c.Request.Context(), id)
	if err != nil {
		ac.LogErrorf(logging.GetLogType("association", entity), "error looking up associations of %s %d: %v", entity, id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponse("an error occurred"))
		return
	}

	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "", ids))
}
