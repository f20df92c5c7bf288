package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ferdian3456/envisiontech/internal/model"
)

// ContentClient reads the public learning catalog. None of its routes need a token.
type ContentClient struct {
	Sender Sender
}

func NewContentClient(sender Sender) *ContentClient {
	return &ContentClient{Sender: sender}
}

func (client *ContentClient) Units(ctx context.Context) ([]model.Unit, error) {
	return get[[]model.Unit](ctx, client.Sender, "/units")
}

func (client *ContentClient) Courses(ctx context.Context) ([]model.Course, error) {
	return get[[]model.Course](ctx, client.Sender, "/courses")
}

func (client *ContentClient) Practice(ctx context.Context) ([]model.PracticeQuestion, error) {
	return get[[]model.PracticeQuestion](ctx, client.Sender, "/practice")
}

func (client *ContentClient) Blog(ctx context.Context) (model.Blog, error) {
	return get[model.Blog](ctx, client.Sender, "/blog")
}

func (client *ContentClient) About(ctx context.Context) ([]model.Person, error) {
	return get[[]model.Person](ctx, client.Sender, "/about")
}

// AboutPerson looks a person up by display name; spaces travel as '-'.
func (client *ContentClient) AboutPerson(ctx context.Context, name string) (model.Person, error) {
	slug := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	return get[model.Person](ctx, client.Sender, "/about/"+slug)
}

func get[T any](ctx context.Context, sender Sender, route string) (T, error) {
	status, raw, err := sender.Send(ctx, http.MethodGet, route, nil, "")
	if err != nil {
		var zero T
		return zero, err
	}

	return Resolve[T](status, raw)
}
