package tickets

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) PublishTicketEvent(e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	store, err := database.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.EnsureInitialized())
	return NewManager(database.NewManagers(store), opts...)
}

// steppingClock advances one minute per call.
func steppingClock() func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return epoch.Add(time.Duration(n.Add(1)-1) * time.Minute)
	}
}

func TestSellCoinsScenario(t *testing.T) {
	m := newTestManager(t, WithClock(steppingClock()))

	created, err := m.Create("42", "1001", "5", models.TicketSellCoins, map[string]any{
		"amount":      100.0,
		"total_price": 3.75,
	})
	require.NoError(t, err)
	assert.True(t, created.IsOpen)
	assert.Equal(t, epoch, created.OpenedAt)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsOpen)
	assert.Equal(t, models.TicketSellCoins, got.TicketType)
	assert.Equal(t, 100.0, got.Payload["amount"])
	assert.Equal(t, 3.75, got.Payload["total_price"])

	closed, err := m.Close("42", "1001", "7")
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	assert.Equal(t, "7", closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, epoch.Add(time.Minute), *closed.ClosedAt)

	got, err = m.Get("42", "1001")
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
	assert.Equal(t, "7", got.ClosedBy)
}

func TestCloseTwiceFails(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create("42", "1001", "5", models.TicketBuyMFA, map[string]any{"rank": "MVP+", "price": 17.0})
	require.NoError(t, err)

	_, err = m.Close("42", "1001", "7")
	require.NoError(t, err)

	_, err = m.Close("42", "1001", "7")
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestCloseUnknownTicket(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Close("42", "9999", "7")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Create("42", "1001", "5", models.TicketSellAlt, nil)
	require.NoError(t, err)

	_, err = m.Close("42", "9999", "7")
	assert.ErrorIs(t, err, ErrNotFound)

	// Same channel in a different guild is a different ticket.
	_, err = m.Close("43", "1001", "7")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAbsent(t *testing.T) {
	m := newTestManager(t)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateDuplicate(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create("42", "1001", "5", models.TicketSellAccount, nil)
	require.NoError(t, err)

	_, err = m.Create("42", "1001", "6", models.TicketBuyAccount, nil)
	assert.ErrorIs(t, err, ErrDuplicateTicket)

	// Closing does not free the channel key.
	_, err = m.Close("42", "1001", "7")
	require.NoError(t, err)
	_, err = m.Create("42", "1001", "6", models.TicketBuyAccount, nil)
	assert.ErrorIs(t, err, ErrDuplicateTicket)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	assert.Equal(t, "5", got.OpenedBy)
}

func TestCreateValidation(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create("42", "1001", "5", models.TicketType("refund"), nil)
	assert.ErrorIs(t, err, ErrInvalidTicketType)

	_, err = m.Create("42", "", "5", models.TicketSellMFA, nil)
	assert.ErrorIs(t, err, database.ErrInvalidKey)

	_, err = m.Create("42", "1001", "5", models.TicketSellMFA, map[string]any{"nested": map[string]any{"x": 1}})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConcurrentCreateSameChannel(t *testing.T) {
	m := newTestManager(t)

	const callers = 16
	var wg sync.WaitGroup
	var ok, dup atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Create("42", "1001", fmt.Sprint(i), models.TicketBuyCoins, nil)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrDuplicateTicket):
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, callers-1, dup.Load())
}

func TestConcurrentCloseOnlyOnce(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Create("42", "1001", "5", models.TicketBuyCoins, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var ok, already atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Close("42", "1001", "7")
			if err == nil {
				ok.Add(1)
			} else if errors.Is(err, ErrAlreadyClosed) {
				already.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 7, already.Load())
}

func TestPublisherReceivesTransitions(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestManager(t, WithPublisher(pub))

	_, err := m.Create("42", "1001", "5", models.TicketSellProfile, nil)
	require.NoError(t, err)
	_, err = m.Close("42", "1001", "7")
	require.NoError(t, err)

	// Failed transitions publish nothing.
	_, _ = m.Close("42", "1001", "7")
	_, _ = m.Create("42", "1001", "5", models.TicketSellProfile, nil)

	assert.Equal(t, []string{EventCreated, EventClosed}, pub.kinds())
	assert.Equal(t, "42", pub.events[1].GuildID)
	assert.Equal(t, "7", pub.events[1].Ticket.ClosedBy)
}

func TestPublisherErrorDoesNotFailTransition(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker caído")}
	m := newTestManager(t, WithPublisher(pub))

	_, err := m.Create("42", "1001", "5", models.TicketSellProfile, nil)
	require.NoError(t, err)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsOpen)
}

func TestListings(t *testing.T) {
	m := newTestManager(t, WithClock(steppingClock()))

	_, err := m.Create("42", "1003", "5", models.TicketBuyCoins, nil)
	require.NoError(t, err)
	_, err = m.Create("42", "1001", "6", models.TicketSellCoins, nil)
	require.NoError(t, err)
	_, err = m.Create("42", "1002", "5", models.TicketBuyMFA, nil)
	require.NoError(t, err)
	_, err = m.Close("42", "1001", "7")
	require.NoError(t, err)

	open, err := m.ListOpen("42")
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "1003", open[0].ChannelID)
	assert.Equal(t, "1002", open[1].ChannelID)

	mine, err := m.ListByOpener("42", "5")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	n, err := m.CountOpenByOpener("42", "6")
	require.NoError(t, err)
	assert.Zero(t, n)

	none, err := m.ListOpen("99")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetReturnsCopy(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Create("42", "1001", "5", models.TicketSellMFA, map[string]any{"ign": "Notch"})
	require.NoError(t, err)

	got, err := m.Get("42", "1001")
	require.NoError(t, err)
	got.Payload["ign"] = "changed"
	got.IsOpen = false

	again, err := m.Get("42", "1001")
	require.NoError(t, err)
	assert.True(t, again.IsOpen)
	assert.Equal(t, "Notch", again.Payload["ign"])
}
