package utils

import (
	"context"

	"github.com/defensoria/siri-backend/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyClientName    = appctx.ContextKeyClientName
	ContextKeyStockId       = appctx.ContextKeyStockId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId

	ContextKeyIsSuperuser = appctx.ContextKeyIsSuperuser
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetClientNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyClientName)
}

func GetStockIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyStockId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetIsSuperuserFromContext(ctx context.Context) (bool, bool) {
	return appctx.GetBool(ctx, ContextKeyIsSuperuser)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetClientNameInContext(ctx context.Context, clientName string) context.Context {
	return appctx.Set(ctx, ContextKeyClientName, clientName)
}

func SetStockIdInContext(ctx context.Context, stockId int) context.Context {
	return appctx.Set(ctx, ContextKeyStockId, stockId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetIsSuperuserInContext(ctx context.Context, isSuperuser bool) context.Context {
	return appctx.Set(ctx, ContextKeyIsSuperuser, isSuperuser)
}
