package mqtt

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
)

// TicketEventTopic is where a ticket transition is announced.
func TicketEventTopic(guildID, kind string) string {
	return fmt.Sprintf("%s/tickets/%s/%s", topicRoot, guildID, kind)
}

// PublishTicketEvent implements tickets.Publisher. The message body is the
// ticket record.
func (mc *MqttCommunicator) PublishTicketEvent(e tickets.Event) error {
	return mc.Publish(TicketEventTopic(e.GuildID, e.Kind), e.Ticket)
}

// RegisterTicketQueries answers read-only ticket requests:
//
//	tickets/<guild>/open             open tickets of a guild
//	tickets/<guild>/get/<channel>    one ticket, null when absent
func RegisterTicketQueries(mc *MqttCommunicator, m *tickets.Manager) error {
	if err := mc.On("tickets/+/open", func(topic string, _ map[string]any) (any, error) {
		return m.ListOpen(topicLevel(topic, 1))
	}); err != nil {
		return err
	}
	return mc.On("tickets/+/get/+", func(topic string, _ map[string]any) (any, error) {
		return m.Get(topicLevel(topic, 1), topicLevel(topic, 3))
	})
}

func topicLevel(topic string, i int) string {
	parts := strings.Split(topic, "/")
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
