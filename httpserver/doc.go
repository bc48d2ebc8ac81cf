/*
Package httpserver implements a local stand-in for the Intersight REST API.

It serves read-only collections (GET /api/v1/{resourcePath}) to requests
carrying a valid HTTP signature from a registered public key, which makes it
possible to exercise the inventory client end to end without an Intersight
account.

# Endpoints

  - GET /api/v1/*  - registered collection as {"ObjectType", "Count", "Results"}; 401 on a bad signature, 404 on an unknown path
  - GET /livez     - liveness
  - GET /readyz    - readiness, 503 while draining
  - GET /drain     - mark not ready
  - GET /undrain   - mark ready

# Usage

	handler := httpserver.NewHandler(log)
	keyID, err := handler.RegisterKey(pubkeyPEM)
	handler.RegisterCollection("/compute/PhysicalSummaries", httpserver.SampleAssets())

	srv := httpserver.New(&api.HTTPServerConfig{ListenAddr: "127.0.0.1:8080", Log: log}, handler)
	srv.RunInBackground()
	defer srv.Shutdown()
*/
package httpserver
