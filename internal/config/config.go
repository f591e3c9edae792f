// Package config holds the gateway's go-zero REST server configuration:
// host, port, name, timeouts. It deliberately does NOT carry the domain
// configuration (SELF_OWNER, key paths, service codes, pass-token
// owners): those env vars are dynamically keyed (SERVICE_CODES and
// PASS_TOKEN_OWNERS expand into <SVC>_* / <OWNER>_* lookups) and cannot
// be expressed as static conf struct tags, so internal/bootstrap reads
// them directly with os.Getenv instead.
package config

import "github.com/zeromicro/go-zero/rest"

// Config is loaded from etc/gatewayapi.yaml via conf.MustLoad.
type Config struct {
	rest.RestConf
}
