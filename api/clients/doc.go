/*
Package clients provides the signed HTTP client for the Intersight REST API.

IntersightClient performs a single signed request per call: it builds the URL
from the configured API root, the resource path and the query parameters,
signs the request with the loaded key pair (see cryptoutils.SignRequest),
sends it, and decodes the JSON body.

HTTP error statuses are returned as *StatusError so callers can tell an
authentication failure from other failures. There is no retry.

# Example Usage

	creds, err := credentials.Load(privateKeyPath, publicKeyPath, log)
	if err != nil {
	    return err
	}

	client := clients.NewIntersightClient(clients.DefaultBaseURL, creds, log)

	var result interfaces.QueryResult
	err = client.Call(ctx, interfaces.QueryOptions{
	    Method:       http.MethodGet,
	    ResourcePath: "/compute/PhysicalSummaries",
	}, &result)
*/
package clients
