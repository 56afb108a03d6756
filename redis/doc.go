// Package redis provides the go-redis client component.
//
// The component reads the `redis` section, builds the client while it is
// constructed, pings the server at Init and closes the client at Shutdown.
// There is no package-level client: later components look the component up
// from the build context or the application store.
//
//	redis:
//	  addr: "localhost:6379"
//	  db: 0
//	  pool_size: 10
//
// TypedStore provides JSON-serialized get/set on top of a Client:
//
//	sessions := redis.NewTypedStore[Session](c.Client(), "sessions")
package redis
