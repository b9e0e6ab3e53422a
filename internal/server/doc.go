// Package server provides the HTTP server of the index orchestrator.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (ginzap.Ginzap, "http" logger)                  │  │
//	│  │  Recovery (ginzap.RecoveryWithZap with stack)           │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health                        always open                   │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  JWTAuth (only when Authentication.Enabled)             │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development mode (ServerMode = "dev") runs gin in debug mode. Production
// mode (ServerMode = "prod") switches gin to release mode.
//
// # Authentication
//
// When enabled, every /api/v1 request must carry an HS256 token signed with
// Authentication.JWTSecret:
//
//	Authorization: Bearer <token>
//
// The token must carry an expiry. Missing, expired or badly signed tokens
// get 401.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("server failed", "error", err)
//	    }
//	}()
//
//	<-shutdownCh
//	srv.Stop(ctx) // waits for in-flight requests until ctx ends
package server
