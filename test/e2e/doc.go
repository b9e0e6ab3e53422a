// Package e2e holds the end-to-end suite of the indexer.
//
// The suite runs the whole process in memory: app.New builds the DuckDB
// store, the local and remote backends, the mass indexer and the HTTP API.
// infra.Cluster stands in for the remote search cluster and infra.TokenIssuer
// signs the api tokens. service.IndexerSvc is the api client.
//
//	go test ./test/e2e/...
package e2e
