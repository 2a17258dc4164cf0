package httpx

import (
	"net"
	"net/http"
	"time"
)

// pushClient is shared by the FCM sender. Push delivery runs off the
// request path, so a stalled call must not hold a connection for long.
var pushClient = &http.Client{
	Timeout: 8 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxConnsPerHost:     20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
	},
}

func Client() *http.Client { return pushClient }
