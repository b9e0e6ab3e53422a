// Package handlers implements the HTTP API layer of the index orchestrator.
//
// Handlers validate requests, delegate to the services layer and map
// service errors to HTTP status codes. They implement v1.ServerInterface
// and are registered with:
//
//	v1.RegisterHandlers(router, handler)
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  IndexingService │ DocumentService │ MassIndexer                │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬──────────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint         │ Description                              │
//	├────────┼──────────────────┼──────────────────────────────────────────┤
//	│ POST   │ /documents       │ Apply a batch of add/update/delete ops   │
//	│ GET    │ /documents/{id}  │ Get a document from the local index      │
//	│ DELETE │ /documents/{id}  │ Delete an entity from every index        │
//	│ GET    │ /search          │ Substring search over the local index    │
//	│ POST   │ /flush           │ Wait until every backend is drained      │
//	│ POST   │ /reindex         │ Rebuild the indexes from the entities    │
//	│ GET    │ /status          │ Backends and mass indexer status         │
//	└────────┴──────────────────┴──────────────────────────────────────────┘
//
// POST /documents:
//
//	{
//	    "operations": [
//	        {"type": "add", "entity": {"id": "e1", "title": "Dune"}},
//	        {"type": "delete", "entity": {"id": "e2"}}
//	    ],
//	    "wait": true
//	}
//
// Without wait the request returns 202 once the operations are queued. With
// wait it returns 200 after every backend has applied them, listing the ids
// whose indexing failed in "failed".
//
// DELETE /documents/{id} and POST /reindex accept ?wait=true with the same
// meaning.
//
// # Error Mapping
//
//	InvalidOperationError                    → 400 Bad Request
//	ResourceNotFoundError                    → 404 Not Found
//	OrchestratorStoppedError                 → 503 Service Unavailable
//	SubmitInterruptedError                   → 503 Service Unavailable
//	anything else                            → 500 (logged)
package handlers
