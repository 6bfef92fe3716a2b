package websockets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/storage/memory"
)

func wsEvent(routeKey, connectionID string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			RouteKey:     routeKey,
			ConnectionID: connectionID,
		},
	}
}

func TestConnectHandler_ConnectAndDisconnect(t *testing.T) {
	store := memory.New()
	handler := NewConnectHandler(store)
	ctx := context.Background()

	resp, err := handler.Route(ctx, wsEvent("$connect", "conn-1"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	ids, err := store.GetAllConnections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-1"}, ids)

	resp, err = handler.Route(ctx, wsEvent("$disconnect", "conn-1"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	ids, err = store.GetAllConnections(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConnectHandler_DefaultRouteAcknowledges(t *testing.T) {
	store := memory.New()
	handler := NewConnectHandler(store)

	resp, err := handler.Route(context.Background(), wsEvent("sendMessage", "conn-1"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Client messages are not connection events; nothing is registered.
	ids, err := store.GetAllConnections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type failingConnManager struct{}

func (failingConnManager) AddConnection(context.Context, string) error {
	return errors.New("table unavailable")
}

func (failingConnManager) RemoveConnection(context.Context, string) error {
	return errors.New("table unavailable")
}

func TestConnectHandler_StoreFailureIsA500(t *testing.T) {
	handler := NewConnectHandler(failingConnManager{})

	resp, err := handler.Route(context.Background(), wsEvent("$connect", "conn-1"))
	assert.Error(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
