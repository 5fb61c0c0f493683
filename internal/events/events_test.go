package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NopWithoutBrokers(t *testing.T) {
	p := NewPublisher(nil)
	_, ok := p.(Nop)
	require.True(t, ok)
	require.NoError(t, p.PublishEvent(context.Background(), ProductTopic, "1", ProductEvent{}))
	require.NoError(t, p.Close())
}

func TestNewPublisher_KafkaWithBrokers(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})
	prod, ok := p.(*Producer)
	require.True(t, ok)
	assert.NotNil(t, prod.writer.Addr)
	require.NoError(t, p.Close())
}

func TestProductEvent_JSON(t *testing.T) {
	raw, err := json.Marshal(ProductEvent{Type: ProductCreated, ProductID: 7, Name: "Widget", At: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "product_created", got["type"])
	assert.EqualValues(t, 7, got["productID"])
	assert.Equal(t, "Widget", got["name"])
}
