// Package inventory queries a hardware collection from the API and renders
// it as a plain-text report.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/miradot/intersight-example/api/clients"
	"github.com/miradot/intersight-example/interfaces"
)

// PhysicalSummariesPath is the collection of claimed physical servers.
const PhysicalSummariesPath = "/compute/PhysicalSummaries"

// Requester performs one signed API request and decodes its JSON body into out.
type Requester interface {
	Call(ctx context.Context, opts interfaces.QueryOptions, out interface{}) error
}

// FetchCollection reads one page of the collection at resourcePath and returns
// its Results unmodified, in the order the server sent them.
func FetchCollection(ctx context.Context, requester Requester, resourcePath string, queryParams map[string]string, log *slog.Logger) ([]interfaces.Asset, error) {
	if queryParams == nil {
		queryParams = map[string]string{}
	}

	opts := interfaces.QueryOptions{
		Method:       http.MethodGet,
		ResourcePath: resourcePath,
		QueryParams:  queryParams,
	}

	var body struct {
		Results *[]interfaces.Asset `json:"Results"`
	}
	if err := requester.Call(ctx, opts, &body); err != nil {
		return nil, classifyRequestError(err)
	}

	if body.Results == nil {
		return nil, interfaces.NewError(interfaces.KindUnknownRequest, fmt.Errorf("%s response has no Results field", resourcePath))
	}

	log.Info("fetched collection", "resourcePath", resourcePath, "assets", len(*body.Results))
	return *body.Results, nil
}

func classifyRequestError(err error) error {
	var statusErr *clients.StatusError
	if !errors.As(err, &statusErr) {
		return interfaces.NewError(interfaces.KindUnknownRequest, err)
	}

	kind := interfaces.KindCommunication
	if statusErr.StatusCode == http.StatusUnauthorized {
		kind = interfaces.KindAuthenticationRejected
	}
	return &interfaces.Error{Kind: kind, StatusCode: statusErr.StatusCode, Err: err}
}
