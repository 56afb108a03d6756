// Package server provides the HTTP component: a Gin engine behind an h2c
// handler so HTTP/1.1 and cleartext HTTP/2 share one port.
//
// The component reads the `server` section. Services are mounted as route
// groups:
//
//	app.Register(server.Factory("default", []server.Service{
//		{Path: "/api/users", Register: users.Routes},
//	}))
//
// Every request passes through request id, panic recovery, request
// logging, CORS and body size middleware. The component also serves
// /health, /ready, /alive and /info. /health answers OK together with the
// health of every other component that implements component.HealthChecker.
package server
