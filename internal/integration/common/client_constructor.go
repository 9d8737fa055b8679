package common

import (
	"github.com/futig/diabetes-api/internal/config"
	pkgHTTP "github.com/futig/diabetes-api/pkg/http"
)

// HTTPOptions translates the shared client config into pkg/http options.
func HTTPOptions(cfg config.HTTPClientConfig, token string) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(token),
	}
}

func NewBaseConnector(cfg config.HTTPClientConfig, baseURL, token string) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		BaseURL: baseURL,
	}

	return pkgHTTP.NewConnector(connCfg, HTTPOptions(cfg, token)...)
}
