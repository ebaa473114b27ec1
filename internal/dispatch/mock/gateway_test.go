package mock

import (
	"context"
	"testing"

	"github.com/DukeRupert/duesoon/internal/dispatch"
	"github.com/stretchr/testify/assert"
)

func TestGateway_DefaultDelivers(t *testing.T) {
	g := New(nil)

	out := g.Send(context.Background(), dispatch.Payload{Title: "one"})

	assert.True(t, out.OK)
	assert.Equal(t, 1, g.CallCount())
	assert.Equal(t, "one", g.Sent()[0].Title)
}

func TestGateway_ConfiguredOutcome(t *testing.T) {
	g := New(nil)
	g.Outcome = dispatch.Failed(503, "unavailable")

	out := g.Send(context.Background(), dispatch.Payload{})
	assert.False(t, out.OK)
	assert.Equal(t, 503, out.StatusCode)

	g.SendFunc = func(ctx context.Context, p dispatch.Payload) dispatch.Outcome {
		return dispatch.Delivered(202)
	}
	out = g.Send(context.Background(), dispatch.Payload{})
	assert.True(t, out.OK)
	assert.Equal(t, 202, out.StatusCode)
	assert.Equal(t, 2, g.CallCount())
}
