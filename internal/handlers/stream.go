package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
)

// streamSSE writes one server-sent event per value received on ch until ch
// closes or the client goes away. Subscriptions are tied to the request
// context, so a disconnect closes ch.
func streamSSE[T any](c *gin.Context, event string, ch <-chan T, render func(T) (any, error)) {
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		v, ok := <-ch
		if !ok {
			return false
		}
		body, err := render(v)
		if err != nil {
			c.SSEvent("error", gin.H{"error_code": "stream_decode_failed", "message": err.Error()})
			return true
		}
		c.SSEvent(event, body)
		return true
	})
}
