// Package appctx holds the request-scoped context keys shared by the HTTP
// middleware and the models layer. It has no dependencies so both sides can
// import it without a cycle.
package appctx

import "context"

type ContextKey string

const (
	ContextKeyToken         ContextKey = "token"
	ContextKeyUserId        ContextKey = "user_id"
	ContextKeyUsername      ContextKey = "username"
	ContextKeyClientName    ContextKey = "client_name"
	ContextKeyStockId       ContextKey = "stock_id"
	ContextKeyIsSuperuser   ContextKey = "is_superuser"
	ContextKeyCorrelationId ContextKey = "correlation_id"
)

func Set(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetInt(ctx context.Context, key ContextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func GetBool(ctx context.Context, key ContextKey) (bool, bool) {
	v, ok := ctx.Value(key).(bool)
	return v, ok
}
