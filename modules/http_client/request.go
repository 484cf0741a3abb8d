package http_client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// response is what a finished request reports back to the graph.
type response struct {
	status int64
	body   string
	err    error
}

// SetupRequest declares an http_request node. Once the scene starts, the
// node fetches url and fetches again every time url changes. Results are
// written to status_code, body and error on the graph's goroutine.
func SetupRequest(n *node.Node) error {
	params := []struct {
		name string
		typ  cell.Type
		pin  cell.Pin
		opts []cell.Option
	}{
		{name: "url", typ: cell.TypeString, pin: cell.PinInput},
		{name: "method", typ: cell.TypeString, pin: cell.PinInput},
		{name: "client", typ: cell.TypeOpaque, pin: cell.PinInput},
		{name: "status_code", typ: cell.TypeInt, pin: cell.PinOutput, opts: []cell.Option{cell.ReadOnly()}},
		{name: "body", typ: cell.TypeString, pin: cell.PinOutput, opts: []cell.Option{cell.ReadOnly()}},
		{name: "error", typ: cell.TypeString, pin: cell.PinOutput, opts: []cell.Option{cell.ReadOnly()}},
		{name: "requests", typ: cell.TypeInt, pin: cell.PinNone, opts: []cell.Option{cell.ReadOnly()}},
	}
	for _, p := range params {
		if _, err := n.AddParameter(p.name, p.typ, cty.NilVal, p.pin, cell.ExactlyOne, p.opts...); err != nil {
			return err
		}
	}
	if err := n.SetValue("method", cell.StringVal(http.MethodGet)); err != nil {
		return err
	}

	var (
		ctx         context.Context
		cancel      context.CancelFunc
		post        node.PostFunc
		lastURL     string
		unsubscribe func()
	)
	urlCell := n.MustCell("url")

	fetch := func() {
		logger := ctxlog.FromContext(ctx).With("node", n.Name())
		set := func(name string, v cty.Value) {
			if err := n.SetValue(name, v); err != nil {
				logger.Warn("Failed to update request output.", "parameter", name, "error", err)
			}
		}
		url, err := urlCell.Text()
		if err != nil || url == "" {
			return
		}
		lastURL = url
		method, _ := n.Text("method")
		client := http.DefaultClient
		if c, err := n.MustCell("client").Opaque(); err == nil && c != nil {
			hc, ok := c.(*http.Client)
			if !ok {
				logger.Warn("Ignoring client input that is not an *http.Client.", "type", fmt.Sprintf("%T", c))
			} else {
				client = hc
			}
		}
		count, _ := n.Int("requests")
		set("requests", cell.IntVal(count+1))

		logger.Info("Making HTTP request", "method", method, "url", url)
		reqCtx, reqPost := ctx, post
		go func() {
			res := do(reqCtx, client, method, url)
			reqPost(func() {
				if reqCtx.Err() != nil {
					return
				}
				if res.err != nil {
					logger.Warn("HTTP request failed.", "url", url, "error", res.err)
					set("error", cell.StringVal(res.err.Error()))
					return
				}
				logger.Info("Received HTTP response", "status", res.status)
				set("error", cell.StringVal(""))
				set("status_code", cell.IntVal(res.status))
				set("body", cell.StringVal(res.body))
			})
		}()
	}

	n.OnStart(func(parent context.Context, p node.PostFunc) error {
		ctx, cancel = context.WithCancel(parent)
		post = p
		fetch()
		// url may change by a direct write or through a link; either way a
		// notification arrives once the change has propagated.
		unsubscribe = n.Graph().Subscribe(func(c *cell.Cell) {
			if c != urlCell && !urlCell.Dirty() {
				return
			}
			if url, err := urlCell.Text(); err == nil && url != lastURL {
				fetch()
			}
		})
		return nil
	})
	n.OnStop(func() error {
		if unsubscribe != nil {
			unsubscribe()
			unsubscribe = nil
		}
		if cancel != nil {
			cancel()
		}
		return nil
	})
	return nil
}

func do(ctx context.Context, client *http.Client, method, url string) response {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return response{err: fmt.Errorf("failed to create request: %w", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return response{err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return response{status: int64(resp.StatusCode), body: string(body)}
}
