// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "vocab-cards"
	AppVersion = "1.0.0"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultDatabaseDriver = DriverPostgres
	DefaultJWTIssuer      = "GerdtAuth"
	DefaultJWTAudience    = "GerdtClient"
	DefaultAccessTokenTTL = 10 * time.Minute
	MinJWTSecretLength    = 32
)
