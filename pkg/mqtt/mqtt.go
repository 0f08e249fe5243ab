// Package mqtt publishes bot events to an MQTT broker.
// Moderation actions and feed notifications are mirrored as JSON so other
// services can react to them without talking to Discord.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// TopicRoot prefixes every topic the bot publishes on
const TopicRoot = "floppabot"

// ModerationTopic returns the topic for a moderation action (warn, kick, ban, report)
func ModerationTopic(action string) string {
	return TopicRoot + "/moderation/" + action
}

// NotificationTopic returns the topic for a notification kind (tiktok, birthday)
func NotificationTopic(kind string) string {
	return TopicRoot + "/notifications/" + kind
}

// ModerationEvent is published after a moderation action succeeds
type ModerationEvent struct {
	GuildID     string    `json:"guildId"`
	Action      string    `json:"action"`
	TargetID    string    `json:"targetId"`
	ModeratorID string    `json:"moderatorId"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NotificationEvent is published after a notification is sent
type NotificationEvent struct {
	GuildID   string    `json:"guildId"`
	Kind      string    `json:"kind"`
	ChannelID string    `json:"channelId"`
	Subject   string    `json:"subject"`
	Link      string    `json:"link,omitempty"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends a JSON payload to a topic
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Encode marshals a payload the way it goes on the wire
func Encode(payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// Options configures the broker connection
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	ClientID string
}

// Client is a Publisher backed by a paho connection.
// A nil *Client is valid and drops everything.
type Client struct {
	client   mqtt.Client
	clientID string
	timeout  time.Duration
}

// NewClient connects to the broker. Connection failures are logged and
// retried in the background by paho.
func NewClient(opts Options) *Client {
	if opts.ClientID == "" {
		opts.ClientID = "floppabot"
	}
	if opts.Port == "" {
		opts.Port = "1883"
	}
	uniqueID := fmt.Sprintf("%s_%s", opts.ClientID, uuid.New().String())

	pahoOpts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", opts.Host, opts.Port)).
		SetClientID(uniqueID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success("Connected to MQTT broker as "+uniqueID, "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	c := &Client{
		client:   mqtt.NewClient(pahoOpts),
		clientID: uniqueID,
		timeout:  5 * time.Second,
	}

	token := c.client.Connect()
	if token.WaitTimeout(c.timeout) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return c
}

// ClientID returns the unique ID sent to the broker
func (c *Client) ClientID() string {
	if c == nil {
		return ""
	}
	return c.clientID
}

// IsConnected returns true if connected to the broker
func (c *Client) IsConnected() bool {
	return c != nil && c.client != nil && c.client.IsConnected()
}

// Publish sends payload as JSON. Messages published while offline are
// dropped with a warning.
func (c *Client) Publish(topic string, payload interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	if !c.client.IsConnected() {
		logger.Warn("MQTT offline, dropping message for "+topic, "MQTT")
		return nil
	}

	token := c.client.Publish(topic, 0, false, data)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Subscribe subscribes to a topic with a message handler
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mqtt client not configured")
	}
	token := c.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Close closes the MQTT connection
func (c *Client) Close() {
	if c == nil || c.client == nil {
		return
	}
	if c.client.IsConnected() {
		c.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
		return
	}
	logger.Warn("MQTT client was not connected, nothing to close.", "MQTT")
}

// Message is a payload captured by a Recorder
type Message struct {
	Topic   string
	Payload []byte
}

// Recorder is an in-memory Publisher
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records the encoded payload
func (r *Recorder) Publish(topic string, payload interface{}) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Topic: topic, Payload: data})
	return nil
}

// Messages returns the recorded messages whose topic matches pattern.
// Patterns accept the MQTT '+' and '#' wildcards.
func (r *Recorder) Messages(pattern string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if topicMatch(pattern, m.Topic) {
			out = append(out, m)
		}
	}
	return out
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
