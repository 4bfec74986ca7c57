package web

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// parseWhiteList accepts plain ips and cidrs
func parseWhiteList(list []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, fmt.Errorf("invalid ip %q", s)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			s = fmt.Sprintf("%s/%d", s, bits)
		}
		_, ipn, err := net.ParseCIDR(s)
		if err != nil {
			return nil, err
		}
		nets = append(nets, ipn)
	}
	return nets, nil
}

func secure(whiteList []*net.IPNet, f http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(whiteList) == 0 {
			f(w, r)
			return
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			ip := net.ParseIP(host)
			for _, ipn := range whiteList {
				if ipn.Contains(ip) {
					f(w, r)
					return
				}
			}
		}
		writeJSONError(w, r, http.StatusForbidden, fmt.Errorf("no write permission from %s", host))
	})
}
