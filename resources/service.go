package resources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vetcare/vetportal/client"
)

// Service provides CRUD operations over the collections of the practice api
type Service interface {
	List(ctx context.Context, kind Kind, query url.Values) ([]Record, error)
	Get(ctx context.Context, kind Kind, id string) (Record, error)
	Create(ctx context.Context, kind Kind, data Record) (Record, error)
	Update(ctx context.Context, kind Kind, id string, partial Record) (Record, error)
	Delete(ctx context.Context, kind Kind, id string) error
}

// Requester is the subset of the http client used by the service
type Requester interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (*client.Response, error)
	Post(ctx context.Context, path string, body any, opts ...client.RequestOption) (*client.Response, error)
	Patch(ctx context.Context, path string, body any, opts ...client.RequestOption) (*client.Response, error)
	Delete(ctx context.Context, path string, opts ...client.RequestOption) (*client.Response, error)
}

var _ Requester = &client.Client{}

type service struct {
	client Requester
}

var _ Service = &service{}

func NewService(c *client.Client) Service {
	return NewServiceWithRequester(c)
}

func NewServiceWithRequester(r Requester) Service {
	return &service{client: r}
}

func (s *service) List(ctx context.Context, kind Kind, query url.Values) ([]Record, error) {
	var opts []client.RequestOption
	if len(query) > 0 {
		opts = append(opts, client.WithQuery(query))
	}

	res, err := s.client.Get(ctx, kind.Endpoint(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", kind, err)
	}

	return DecodeList(res.Body)
}

func (s *service) Get(ctx context.Context, kind Kind, id string) (Record, error) {
	res, err := s.client.Get(ctx, kind.ItemEndpoint(id))
	if err != nil {
		return nil, fmt.Errorf("unable to get %s %s: %w", kind, id, err)
	}

	return decodeRecord(res)
}

func (s *service) Create(ctx context.Context, kind Kind, data Record) (Record, error) {
	res, err := s.client.Post(ctx, kind.Endpoint(), data)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s: %w", kind, err)
	}

	return decodeRecord(res)
}

func (s *service) Update(ctx context.Context, kind Kind, id string, partial Record) (Record, error) {
	res, err := s.client.Patch(ctx, kind.ItemEndpoint(id), partial)
	if err != nil {
		return nil, fmt.Errorf("unable to update %s %s: %w", kind, id, err)
	}

	return decodeRecord(res)
}

func (s *service) Delete(ctx context.Context, kind Kind, id string) error {
	if _, err := s.client.Delete(ctx, kind.ItemEndpoint(id)); err != nil {
		return fmt.Errorf("unable to delete %s %s: %w", kind, id, err)
	}
	return nil
}

func decodeRecord(res *client.Response) (Record, error) {
	if len(res.Body) == 0 {
		return Record{}, nil
	}

	record := Record{}
	if err := res.Decode(&record); err != nil {
		return nil, fmt.Errorf("unable to decode record: %w", err)
	}
	return record, nil
}
