package discord

import (
	"strings"
	"sync"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
)

// Component handles presses of message components whose custom ID equals
// ID or starts with ID followed by ':'.
type Component struct {
	ID     string
	Access Access
	Run    CommandRunFunc
}

// ComponentCollection holds registered component handlers.
type ComponentCollection struct {
	components map[string]*Component
	mu         sync.RWMutex
}

// NewComponentCollection creates an empty ComponentCollection.
func NewComponentCollection() *ComponentCollection {
	return &ComponentCollection{components: make(map[string]*Component)}
}

// Set adds or replaces a handler.
func (cc *ComponentCollection) Set(comp *Component) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.components[comp.ID] = comp
	logger.Debug("Componente registrado: "+comp.ID, "CommandHandler")
}

// Match finds the handler for a custom ID, preferring the longest prefix.
func (cc *ComponentCollection) Match(customID string) (*Component, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	id := customID
	for {
		if comp, ok := cc.components[id]; ok {
			return comp, true
		}
		i := strings.LastIndex(id, ":")
		if i <= 0 {
			return nil, false
		}
		id = id[:i]
	}
}

// Size returns the number of handlers.
func (cc *ComponentCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.components)
}
