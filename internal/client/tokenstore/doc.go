// Package tokenstore persists the session tokens between runs.
//
// Every store keeps plain string values under string keys (the client uses
// common.AccessTokenKey and common.RefreshTokenKey) and implements:
//
//	Get(ctx, key)        value, or an error matching common.ErrorNotFound
//	Set(ctx, key, value) insert or overwrite
//	Clear(ctx, keys...)  remove the keys; absent keys are not an error
//
// Implementations:
//   - Memory: process lifetime only.
//   - SQLiteStore: a local database file, schema managed by goose.
//   - RedisStore: a shared Redis instance under a key prefix.
//   - EncryptedStore: wraps another store and seals values with AES-GCM.
package tokenstore
