package dispatcher

import (
	"crypto/tls"
	"sync/atomic"
	"time"

	"go-yob/internal/config"

	"github.com/valyala/fasthttp"
)

// HTTPPool round-robins over fasthttp clients used to pull attachments off
// the Discord CDN before they are re-uploaded.
type HTTPPool struct {
	clients []*fasthttp.Client
	next    uint32
}

func NewHTTPPool(cfg config.NetworkConfig) *HTTPPool {
	size := cfg.HTTPPoolSize
	if size <= 0 {
		size = 1
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ClientSessionCache: tls.NewLRUClientSessionCache(64),
	}

	clients := make([]*fasthttp.Client, size)
	for i := 0; i < size; i++ {
		clients[i] = &fasthttp.Client{
			Name:                "go-yob",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
			WriteTimeout:        time.Duration(cfg.WriteTimeoutMS) * time.Millisecond,
			MaxConnWaitTimeout:  2 * time.Second,
			MaxResponseBodySize: cfg.MaxAttachmentBytes,
			// Attachment GETs are idempotent but delivery has no retry policy.
			MaxIdemponentCallAttempts: 1,
			TLSConfig:                 tlsConfig,
		}
	}

	return &HTTPPool{clients: clients}
}

func (hp *HTTPPool) GetClient() *fasthttp.Client {
	i := atomic.AddUint32(&hp.next, 1) - 1
	return hp.clients[int(i)%len(hp.clients)]
}

func (hp *HTTPPool) Size() int {
	return len(hp.clients)
}

// CloseIdle drops idle connections on every client.
func (hp *HTTPPool) CloseIdle() {
	for _, c := range hp.clients {
		c.CloseIdleConnections()
	}
}
