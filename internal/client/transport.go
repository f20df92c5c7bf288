package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Sender issues one HTTP exchange against the forum API. An empty token sends no
// Authorization header.
type Sender interface {
	Send(ctx context.Context, method string, route string, body any, token string) (int, []byte, error)
}

type Transport struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	Log        *zap.Logger
}

// NewTransport prepares a Transport for baseURL. httpClient may be nil; its round tripper
// is wrapped so requests join the caller's trace.
func NewTransport(baseURL string, httpClient *http.Client, log *zap.Logger) (*Transport, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, model.NewClientError(constant.ERR_INVALID_ROUTE, "base url is not absolute: "+baseURL, err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	instrumented := &http.Client{}
	if httpClient != nil {
		*instrumented = *httpClient
	}
	roundTripper := instrumented.Transport
	if roundTripper == nil {
		roundTripper = http.DefaultTransport
	}
	instrumented.Transport = otelhttp.NewTransport(roundTripper)

	return &Transport{
		BaseURL:    base,
		HTTPClient: instrumented,
		Log:        log,
	}, nil
}

func (transport *Transport) Send(ctx context.Context, method string, route string, body any, token string) (int, []byte, error) {
	endpoint, err := transport.endpoint(route)
	if err != nil {
		return 0, nil, err
	}

	var reader io.Reader
	hasBody := body != nil && method != http.MethodGet
	if hasBody {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return 0, nil, model.NewClientError(constant.ERR_INVALID_PARAMETERS, "request body could not be encoded", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, model.NewClientError(constant.ERR_INVALID_ROUTE, "route could not form a valid request", err)
	}

	request.Header.Set("Accept", "application/json")
	if hasBody {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := transport.HTTPClient.Do(request)
	if err != nil {
		return 0, nil, model.NewClientError(constant.ERR_INVALID_RESPONSE, "no response from server", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, model.NewClientError(constant.ERR_INVALID_RESPONSE, "response body could not be read", err)
	}

	transport.Log.Debug("api request",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", response.StatusCode),
		zap.Bool("authenticated", token != ""),
	)

	return response.StatusCode, raw, nil
}

// endpoint joins route (a path with an optional query) onto the base url.
func (transport *Transport) endpoint(route string) (string, error) {
	ref, err := url.Parse(route)
	if err != nil {
		return "", model.NewClientError(constant.ERR_INVALID_ROUTE, "route could not form a valid url", err)
	}
	if ref.Scheme != "" || ref.Host != "" || ref.Path == "" {
		return "", model.NewClientError(constant.ERR_INVALID_ROUTE, "route could not form a valid url: "+route, nil)
	}

	endpoint := *transport.BaseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	endpoint.RawPath = ""
	endpoint.RawQuery = ref.RawQuery
	endpoint.Fragment = ""

	return endpoint.String(), nil
}
