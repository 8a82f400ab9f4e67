// Package mqtt connects the bot to an MQTT broker. Ticket transitions are
// published as events and other services can query tickets with a
// request/response exchange.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	topicRoot      = "storefront"
	requestPrefix  = topicRoot + "/request/"
	responsePrefix = topicRoot + "/response/"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("cliente MQTT no conectado")

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string         `json:"correlationId"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string `json:"correlationId"`
	Data          any    `json:"data"`
	Error         string `json:"error,omitempty"`
}

// RequestHandler answers a request. topic has the request prefix removed.
type RequestHandler func(topic string, payload map[string]any) (any, error)

type route struct {
	pattern string
	handler RequestHandler
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client         mqtt.Client
	clientID       string
	publishTimeout time.Duration

	mu         sync.RWMutex
	routes     []route
	subscribed bool
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a communicator and connects to the broker.
// A failed first connection is logged; paho keeps retrying in the background.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	var mc *MqttCommunicator
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			// Subscriptions are lost on reconnect with a clean session.
			if mc != nil {
				mc.resubscribe()
			}
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc = NewWithClient(mqtt.NewClient(opts), clientID)

	token := mc.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// NewWithClient wraps an existing paho client without connecting it.
func NewWithClient(client mqtt.Client, clientID string) *MqttCommunicator {
	return &MqttCommunicator{
		client:         client,
		clientID:       clientID,
		publishTimeout: 5 * time.Second,
	}
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON message to a topic.
func (mc *MqttCommunicator) Publish(topic string, payload any) error {
	if !mc.IsConnected() {
		return ErrNotConnected
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 1, false, jsonData)
	if !token.WaitTimeout(mc.publishTimeout) {
		return fmt.Errorf("publicación en '%s' expirada (timeout)", topic)
	}
	return token.Error()
}

// On registers a handler for request topics matching pattern, which may use
// the '+' and '#' wildcards. Patterns are relative to the request prefix.
func (mc *MqttCommunicator) On(pattern string, handler RequestHandler) error {
	mc.mu.Lock()
	mc.routes = append(mc.routes, route{pattern: pattern, handler: handler})
	needSubscribe := !mc.subscribed
	mc.mu.Unlock()

	if !needSubscribe || !mc.IsConnected() {
		return nil
	}
	return mc.subscribeRequests()
}

func (mc *MqttCommunicator) subscribeRequests() error {
	token := mc.client.Subscribe(requestPrefix+"#", 1, func(c mqtt.Client, msg mqtt.Message) {
		mc.dispatch(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(mc.publishTimeout) {
		return fmt.Errorf("suscripción a '%s#' expirada", requestPrefix)
	}
	if err := token.Error(); err != nil {
		logger.Error(fmt.Sprintf("Error al suscribirse a %s#: %v", requestPrefix, err), "MQTT")
		return err
	}
	mc.mu.Lock()
	mc.subscribed = true
	mc.mu.Unlock()
	return nil
}

func (mc *MqttCommunicator) resubscribe() {
	mc.mu.Lock()
	hasRoutes := len(mc.routes) > 0
	mc.subscribed = false
	mc.mu.Unlock()
	if hasRoutes {
		go func() {
			if err := mc.subscribeRequests(); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo restaurar la suscripción: %v", err), "MQTT")
			}
		}()
	}
}

// dispatch answers one request message on its response topic.
func (mc *MqttCommunicator) dispatch(fullTopic string, body []byte) {
	var request MqttRequest
	if err := json.Unmarshal(body, &request); err != nil {
		logger.Error(fmt.Sprintf("Error al leer la petición MQTT: %v", err), "MQTT")
		return
	}
	if request.CorrelationID == "" {
		logger.Warn(fmt.Sprintf("Petición sin correlationId en %s", fullTopic), "MQTT")
		return
	}

	topic := strings.TrimPrefix(fullTopic, requestPrefix)
	responseTopic := fmt.Sprintf("%s%s/%s", responsePrefix, topic, request.CorrelationID)

	handler := mc.match(topic)
	response := MqttResponse{CorrelationID: request.CorrelationID}
	if handler == nil {
		response.Error = fmt.Sprintf("sin handler para '%s'", topic)
	} else if data, err := handler(topic, request.Payload); err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}

	if err := mc.Publish(responseTopic, response); err != nil {
		logger.Error(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
	}
}

func (mc *MqttCommunicator) match(topic string) RequestHandler {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, r := range mc.routes {
		if topicMatch(r.pattern, topic) {
			return r.handler
		}
	}
	return nil
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	patternLen := len(patternParts)
	topicLen := len(topicParts)

	for i := 0; i < patternLen; i++ {
		if patternParts[i] == "#" {
			return true
		}

		if i >= topicLen {
			return false
		}

		if patternParts[i] == "+" {
			continue
		}

		if patternParts[i] != topicParts[i] {
			return false
		}
	}

	return patternLen == topicLen
}
