package rpc

import (
	"connectrpc.com/connect"
	"context"
	"net/http"
	"strings"
)

const BlogServiceName = "blog.v1.BlogService"

const (
	BlogServiceQueryProcedure  = "/" + BlogServiceName + "/Query"
	BlogServiceCreateProcedure = "/" + BlogServiceName + "/Create"
	BlogServiceUpdateProcedure = "/" + BlogServiceName + "/Update"
	BlogServiceDeleteProcedure = "/" + BlogServiceName + "/Delete"
)

// BlogServiceHandler serves the four verbs of blog.v1.BlogService.
type BlogServiceHandler interface {
	Query(context.Context, *connect.Request[QueryRequest]) (*connect.Response[QueryResponse], error)
	Create(context.Context, *connect.Request[CreateRequest]) (*connect.Response[CreateResponse], error)
	Update(context.Context, *connect.Request[UpdateRequest]) (*connect.Response[UpdateResponse], error)
	Delete(context.Context, *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error)
}

// NewBlogServiceHandler builds an http.Handler for svc and returns the path prefix to mount it on.
func NewBlogServiceHandler(svc BlogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	query := connect.NewUnaryHandler(
		BlogServiceQueryProcedure,
		svc.Query,
		append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))...,
	)
	create := connect.NewUnaryHandler(BlogServiceCreateProcedure, svc.Create, opts...)
	update := connect.NewUnaryHandler(BlogServiceUpdateProcedure, svc.Update, opts...)
	remove := connect.NewUnaryHandler(BlogServiceDeleteProcedure, svc.Delete, opts...)

	return "/" + BlogServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BlogServiceQueryProcedure:
			query.ServeHTTP(w, r)
		case BlogServiceCreateProcedure:
			create.ServeHTTP(w, r)
		case BlogServiceUpdateProcedure:
			update.ServeHTTP(w, r)
		case BlogServiceDeleteProcedure:
			remove.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BlogServiceClient calls blog.v1.BlogService.
type BlogServiceClient interface {
	Query(context.Context, *connect.Request[QueryRequest]) (*connect.Response[QueryResponse], error)
	Create(context.Context, *connect.Request[CreateRequest]) (*connect.Response[CreateResponse], error)
	Update(context.Context, *connect.Request[UpdateRequest]) (*connect.Response[UpdateResponse], error)
	Delete(context.Context, *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error)
}

// NewBlogServiceClient returns a client of the service at baseURL, e.g. http://localhost:8080.
// It speaks the Connect protocol unless opts select grpc or grpc-web.
func NewBlogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BlogServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &blogServiceClient{
		query:  connect.NewClient[QueryRequest, QueryResponse](httpClient, baseURL+BlogServiceQueryProcedure, opts...),
		create: connect.NewClient[CreateRequest, CreateResponse](httpClient, baseURL+BlogServiceCreateProcedure, opts...),
		update: connect.NewClient[UpdateRequest, UpdateResponse](httpClient, baseURL+BlogServiceUpdateProcedure, opts...),
		remove: connect.NewClient[DeleteRequest, DeleteResponse](httpClient, baseURL+BlogServiceDeleteProcedure, opts...),
	}
}

type blogServiceClient struct {
	query  *connect.Client[QueryRequest, QueryResponse]
	create *connect.Client[CreateRequest, CreateResponse]
	update *connect.Client[UpdateRequest, UpdateResponse]
	remove *connect.Client[DeleteRequest, DeleteResponse]
}

func (c *blogServiceClient) Query(ctx context.Context, req *connect.Request[QueryRequest]) (*connect.Response[QueryResponse], error) {
	return c.query.CallUnary(ctx, req)
}

func (c *blogServiceClient) Create(ctx context.Context, req *connect.Request[CreateRequest]) (*connect.Response[CreateResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *blogServiceClient) Update(ctx context.Context, req *connect.Request[UpdateRequest]) (*connect.Response[UpdateResponse], error) {
	return c.update.CallUnary(ctx, req)
}

func (c *blogServiceClient) Delete(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	return c.remove.CallUnary(ctx, req)
}
