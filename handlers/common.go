package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"coffee-wifi/auth"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestClient names the caller: the client resolved by the server's auth
// callback, else the user the route guard put in ctx.
func requestClient(ctx context.Context) string {
	if ra := httpserver.GetRequestAuth(ctx); ra != nil {
		return ra.Client
	}
	if user := auth.UserFromContext(ctx); user != nil {
		return "user:" + strconv.Itoa(user.ID)
	}
	return ""
}

// logRequest logs message prefixed with route details from the httpserver
// context and the calling client. Pass zap fields for details, e.g.
// zap.Error(err).
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	client := requestClient(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if client != "" {
		logMsg += " - client:" + client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
