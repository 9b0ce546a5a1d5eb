package rpc

import (
	"blog-content-service/internal/environment"
	"blog-content-service/internal/models"
	"connectrpc.com/connect"
	"context"
	"fmt"
)

// Service dispatches the requests of blog.v1.BlogService to the content store.
type Service struct {
	*environment.Env
}

// ensure Service implements BlogServiceHandler
var _ BlogServiceHandler = &Service{}

func (s *Service) Query(ctx context.Context, req *connect.Request[QueryRequest]) (*connect.Response[QueryResponse], error) {
	payload, err := req.Msg.Payload()
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	res := &QueryResponse{}
	switch q := payload.(type) {
	case *models.QueryArticle:
		res.Articles, err = s.QueryArticles(ctx, *q)
	case *models.QueryCategory:
		res.Categories, err = s.QueryCategories(ctx, *q)
	case *models.QueryTag:
		res.Tags, err = s.QueryTags(ctx, *q)
	default:
		err = unknownPayload(payload)
	}
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	return connect.NewResponse(res), nil
}

func (s *Service) Create(ctx context.Context, req *connect.Request[CreateRequest]) (*connect.Response[CreateResponse], error) {
	payload, err := req.Msg.Payload()
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	var id int64
	switch entity := payload.(type) {
	case *models.Article:
		id, err = s.CreateArticle(ctx, *entity)
	case *models.Category:
		id, err = s.CreateCategory(ctx, *entity)
	case *models.Tag:
		id, err = s.CreateTag(ctx, *entity)
	default:
		err = unknownPayload(payload)
	}
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	return connect.NewResponse(&CreateResponse{ID: id}), nil
}

func (s *Service) Update(ctx context.Context, req *connect.Request[UpdateRequest]) (*connect.Response[UpdateResponse], error) {
	payload, err := req.Msg.Payload()
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	var id int64
	switch entity := payload.(type) {
	case *models.Article:
		id, err = s.UpdateArticle(ctx, *entity)
	case *models.Category:
		id, err = s.UpdateCategory(ctx, *entity)
	case *models.Tag:
		id, err = s.UpdateTag(ctx, *entity)
	default:
		err = unknownPayload(payload)
	}
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	return connect.NewResponse(&UpdateResponse{ID: id}), nil
}

func (s *Service) Delete(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	payload, err := req.Msg.Payload()
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	var id int64
	switch target := payload.(type) {
	case ArticleID:
		id, err = int64(target), s.DeleteArticle(ctx, int64(target))
	case CategoryID:
		id, err = int64(target), s.DeleteCategory(ctx, int64(target))
	case TagID:
		id, err = int64(target), s.DeleteTag(ctx, int64(target))
	default:
		err = unknownPayload(payload)
	}
	if err != nil {
		return nil, s.connectError(ctx, req.Spec().Procedure, err)
	}

	return connect.NewResponse(&DeleteResponse{ID: id}), nil
}

func unknownPayload(payload any) error {
	return fmt.Errorf("%w: unsupported type %T", ErrUnsetPayload, payload)
}
