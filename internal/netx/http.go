package netx

import (
	"context"
	"net/http"
)

// HTTPReacher treats any HTTP answer from URL as proof of reachability. The
// status code is ignored: an object store that answers 403 to an anonymous
// HEAD is still reachable.
type HTTPReacher struct {
	URL    string
	Client *http.Client
}

func (h HTTPReacher) Reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.URL, nil)
	if err != nil {
		return false
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
