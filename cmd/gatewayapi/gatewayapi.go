// Command gatewayapi is Cerberus Gateway's process entry point: parse
// the REST config file, assemble the service context, register routes,
// start the server. Everything domain-specific (keys, pass tokens,
// service directory) is loaded from the environment by
// internal/bootstrap before the listener binds; any failure there
// aborts the process.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/suleymanmyradov/cerberus-gateway/internal/bootstrap"
	"github.com/suleymanmyradov/cerberus-gateway/internal/config"
	"github.com/suleymanmyradov/cerberus-gateway/internal/handler"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/gatewayapi.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	boot, err := bootstrap.Load(context.Background())
	if err != nil {
		logx.Must(err)
	}
	logx.Infof("self-owner %q has an active pass token: %v", boot.State.SelfOwner, boot.State.PassTokens.SelfOwnerHasActiveToken())

	ctx := svc.NewServiceContext(c, boot)

	// resolve's tail path has unbounded depth, which go-zero's rest.Route
	// trie can't express; it is mounted as the not-found fallback instead
	// of an ordinary route, so it must be supplied when the server itself
	// is constructed.
	server := rest.MustNewServer(c.RestConf, rest.WithNotFoundHandler(handler.ResolveNotFoundHandler(ctx)))
	defer server.Stop()

	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting Cerberus Gateway at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
