// Package redis connects to the Redis server that backs shared visitor
// language preferences (see pkg/preference) when the public site runs as
// several replicas.
//
// # Usage
//
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		defer client.Close()
//		prefs := preference.NewRedisStore(client)
//		health := redis.Healthcheck(client)
//	}
//
// Connect retries the initial ping RetryAttempts times, RetryInterval apart,
// and gives up once ConnectTimeout elapses.
package redis
