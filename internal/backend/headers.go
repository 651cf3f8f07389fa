package backend

import (
	"net/http"
	"strings"
)

// hopHeaders only apply to a single connection and are never relayed.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// OutboundHeaders copies inbound browser headers for a backend call.
// Browser cookies, forwarding headers, hop-by-hop headers, Host and any caller supplied
// Authorization are dropped; the session bearer is added by the client.
func OutboundHeaders(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for key, values := range in {
		canonical := http.CanonicalHeaderKey(key)
		switch {
		case canonical == "Cookie", canonical == "Host", canonical == "Authorization", canonical == "Content-Length":
			continue
		case strings.HasPrefix(canonical, "X-Forwarded-"), canonical == "Forwarded":
			continue
		}
		out[canonical] = append([]string(nil), values...)
	}
	removeHopHeaders(out)
	return out
}

// CopyResponseHeaders relays backend reply headers to the browser.
func CopyResponseHeaders(dst, src http.Header) {
	filtered := src.Clone()
	removeHopHeaders(filtered)
	for key, values := range filtered {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

func removeHopHeaders(header http.Header) {
	for _, name := range header.Values("Connection") {
		for _, field := range strings.Split(name, ",") {
			if field = strings.TrimSpace(field); field != "" {
				header.Del(field)
			}
		}
	}
	for _, name := range hopHeaders {
		header.Del(name)
	}
}
