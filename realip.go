// Copyright 2026 The Corsa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package corsa

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// realIPConfig is the compiled trusted-proxy configuration. When nil (the
// default), forwarding headers are ignored and the peer address is the
// client address.
type realIPConfig struct {
	proxies []netip.Prefix
}

// WithTrustedProxies declares which peers are trusted proxies, given as
// CIDRs. When the immediate peer is trusted, the client address is resolved
// from X-Forwarded-For (walked right to left past trusted hops) or
// X-Real-IP before falling back to the peer address.
//
// Without this option forwarding headers are never consulted, so clients
// cannot spoof their address by setting them.
func WithTrustedProxies(cidrs ...string) Option {
	return func(r *Router) {
		cfg := &realIPConfig{}
		for _, cidr := range cidrs {
			p, err := netip.ParsePrefix(cidr)
			if err != nil {
				// Single addresses are accepted as degenerate prefixes.
				addr, aerr := netip.ParseAddr(cidr)
				if aerr != nil {
					panic(fmt.Sprintf("corsa: %v: %q", ErrInvalidProxyCIDR, cidr))
				}
				p = netip.PrefixFrom(addr, addr.BitLen())
			}
			cfg.proxies = append(cfg.proxies, p)
		}
		r.realip = cfg
	}
}

func (cfg *realIPConfig) isTrusted(addr netip.Addr) bool {
	if cfg == nil || !addr.IsValid() {
		return false
	}
	for _, p := range cfg.proxies {
		if p.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// extractClientIP resolves the client network address for a request.
// The zero Addr is returned when nothing parseable is found.
func extractClientIP(req *http.Request, cfg *realIPConfig) netip.Addr {
	peer := parseHostAddr(req.RemoteAddr)

	if !cfg.isTrusted(peer) {
		return peer
	}

	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		if addr := lastUntrustedForwarded(xff, cfg); addr.IsValid() {
			return addr
		}
	}
	if xr := req.Header.Get("X-Real-IP"); xr != "" {
		if addr := parseHostAddr(xr); addr.IsValid() {
			return addr
		}
	}
	return peer
}

// lastUntrustedForwarded walks an X-Forwarded-For list right to left and
// returns the first hop that is not a trusted proxy — the nearest address
// the trusted infrastructure did not add itself.
func lastUntrustedForwarded(xff string, cfg *realIPConfig) netip.Addr {
	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr := parseHostAddr(strings.TrimSpace(hops[i]))
		if !addr.IsValid() {
			continue
		}
		if !cfg.isTrusted(addr) {
			return addr
		}
	}
	return netip.Addr{}
}

// parseHostAddr parses "ip" or "ip:port" (including bracketed IPv6) into a
// structured address.
func parseHostAddr(s string) netip.Addr {
	if s == "" {
		return netip.Addr{}
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap()
	}
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.Unmap()
	}
	return netip.Addr{}
}
