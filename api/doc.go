/*
Package api groups the pieces that talk to the Intersight REST API.

  - clients - the signed request client used by the inventory command
  - HTTPServerConfig - configuration for the local mock API (see package httpserver)
*/
package api
