package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// ClientTracer logs who is knocking on the public routes (nodekey,
// subscribe, renove): remote address, IP family, and whether the caller
// already presented a pass-token header. Authentication happens later,
// or not at all, on these routes, so this trace is the only record of
// the caller.
func ClientTracer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, port, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip, port = r.RemoteAddr, ""
		}
		family := "ipv4"
		if strings.Contains(ip, ":") {
			family = "ipv6"
		}
		hasToken := r.Header.Get(PassTokenHeader) != ""
		logx.WithContext(r.Context()).Infof("client %s:%s (%s) -> %s %s, pass-token present: %v",
			ip, port, family, r.Method, r.URL.Path, hasToken)

		next(w, r)
	}
}
