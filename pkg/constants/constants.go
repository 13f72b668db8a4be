package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	DBKey        ContextKey = "db"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	RequestID    ContextKey = "requestID"
)
