package mqtt

import (
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type published struct {
	topic   string
	payload []byte
}

// fakeClient records publishes. Methods not overridden panic if called.
type fakeClient struct {
	paho.Client

	mu         sync.Mutex
	connected  bool
	messages   []published
	subscribed []string
}

func (f *fakeClient) IsConnected() bool { return f.connected }

func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{topic: topic, payload: payload.([]byte)})
	return doneToken{}
}

func (f *fakeClient) Subscribe(topic string, _ byte, _ paho.MessageHandler) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	return doneToken{}
}

func (f *fakeClient) last(t *testing.T) published {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"tickets/+/open", "tickets/42/open", true},
		{"tickets/+/open", "tickets/42/closed", false},
		{"tickets/+/get/+", "tickets/42/get/1001", true},
		{"tickets/+/get/+", "tickets/42/get", false},
		{"tickets/#", "tickets", true},
		{"tickets/#", "tickets/42/get/1001", true},
		{"#", "anything/at/all", true},
		{"a/b", "a/b/c", false},
		{"a/b/c", "a/b", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicMatch(tt.pattern, tt.topic))
		})
	}
}

func TestPublishRequiresConnection(t *testing.T) {
	mc := NewWithClient(&fakeClient{}, "test")
	assert.ErrorIs(t, mc.Publish("x", 1), ErrNotConnected)
}

func TestPublishTicketEvent(t *testing.T) {
	client := &fakeClient{connected: true}
	mc := NewWithClient(client, "test")

	ticket := models.Ticket{OpenedBy: "5", ChannelID: "1001", TicketType: models.TicketBuyCoins, IsOpen: true}
	require.NoError(t, mc.PublishTicketEvent(tickets.Event{Kind: tickets.EventCreated, GuildID: "42", Ticket: ticket}))

	msg := client.last(t)
	assert.Equal(t, "storefront/tickets/42/created", msg.topic)

	var got models.Ticket
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, "1001", got.ChannelID)
	assert.True(t, got.IsOpen)
}

func TestTicketQueries(t *testing.T) {
	store, err := database.NewStore(t.TempDir())
	require.NoError(t, err)
	manager := tickets.NewManager(database.NewManagers(store))
	_, err = manager.Create("42", "1001", "5", models.TicketSellMFA, map[string]any{"rank": "VIP"})
	require.NoError(t, err)

	client := &fakeClient{connected: true}
	mc := NewWithClient(client, "test")
	require.NoError(t, RegisterTicketQueries(mc, manager))
	assert.Equal(t, []string{"storefront/request/#"}, client.subscribed, "one wildcard subscription for all routes")

	mc.dispatch("storefront/request/tickets/42/open", []byte(`{"correlationId":"abc"}`))
	msg := client.last(t)
	assert.Equal(t, "storefront/response/tickets/42/open/abc", msg.topic)

	var resp struct {
		CorrelationID string          `json:"correlationId"`
		Data          []models.Ticket `json:"data"`
		Error         string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(msg.payload, &resp))
	assert.Equal(t, "abc", resp.CorrelationID)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "1001", resp.Data[0].ChannelID)

	mc.dispatch("storefront/request/tickets/42/get/1001", []byte(`{"correlationId":"def"}`))
	msg = client.last(t)
	assert.Equal(t, "storefront/response/tickets/42/get/1001/def", msg.topic)

	mc.dispatch("storefront/request/stock/42", []byte(`{"correlationId":"ghi"}`))
	var failed MqttResponse
	require.NoError(t, json.Unmarshal(client.last(t).payload, &failed))
	assert.Contains(t, failed.Error, "sin handler")
}

func TestDispatchIgnoresBadRequests(t *testing.T) {
	client := &fakeClient{connected: true}
	mc := NewWithClient(client, "test")

	mc.dispatch("storefront/request/tickets/42/open", []byte(`not json`))
	mc.dispatch("storefront/request/tickets/42/open", []byte(`{"payload":{}}`))

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Empty(t, client.messages)
}

func TestManagerPublishesThroughCommunicator(t *testing.T) {
	store, err := database.NewStore(t.TempDir())
	require.NoError(t, err)
	client := &fakeClient{connected: true}
	mc := NewWithClient(client, "test")
	manager := tickets.NewManager(database.NewManagers(store), tickets.WithPublisher(mc))

	_, err = manager.Create("42", "1001", "5", models.TicketBuyAccount, nil)
	require.NoError(t, err)
	_, err = manager.Close("42", "1001", "7")
	require.NoError(t, err)

	assert.Equal(t, "storefront/tickets/42/closed", client.last(t).topic)
}
