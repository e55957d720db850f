// Package store provides backends for persisting session records.
//
// Implementations:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: JSON files in a directory, for single-instance deployments
//   - [RedisStore]: Redis keys with native expiry, for multi-instance deployments
//   - [MongoStore]: MongoDB documents with a TTL index
//
// All backends return nil, nil from Get for missing or expired records.
//
//	st, err := store.Open(ctx, store.Config{Backend: "redis", RedisAddr: "localhost:6379"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
package store
