// Package redis opens go-redis clients from environment configuration.
//
// The client backs the response cache (pkg/cache) and is probed by the
// readiness endpoint through Healthcheck:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Open(ctx, cfg)
//	...
//	webserver.New(
//	    webserver.WithHealthChecks(health.Checks{"redis": redis.Healthcheck(client)}),
//	    webserver.WithShutdownHook(redis.Shutdown(client)),
//	)
package redis
