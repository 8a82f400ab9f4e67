// Package discordtest provides a discordgo session whose REST calls are
// recorded in memory, plus builders for interaction events.
package discordtest

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

// Request is one REST call made through the session.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Reply is an interaction callback as sent to Discord.
type Reply struct {
	Type int `json:"type"`
	Data struct {
		Content    string            `json:"content"`
		Flags      int               `json:"flags"`
		Components []json.RawMessage `json:"components"`
	} `json:"data"`
}

// Ephemeral reports whether only the invoking user sees the reply.
func (r Reply) Ephemeral() bool {
	return r.Data.Flags&int(discordgo.MessageFlagsEphemeral) != 0
}

// Recorder answers every request with a JSON object holding a fresh
// snowflake-like ID, except application command endpoints, which get an
// empty array. FailOn and Answer override that per route; the last matching
// rule wins.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
	rules    []rule
	nextID   atomic.Uint64
}

type rule struct {
	method, fragment string
	status           int
	body             string
}

// FailOn makes every later request whose method matches and whose path
// contains fragment answer with status. Use 4xx codes; discordgo retries
// some 5xx responses.
func (r *Recorder) FailOn(method, fragment string, status int) {
	r.addRule(rule{method: method, fragment: fragment, status: status,
		body: `{"message":"` + http.StatusText(status) + `","code":0}`})
}

// Answer makes matching requests succeed with body instead of a fresh ID.
func (r *Recorder) Answer(method, fragment, body string) {
	r.addRule(rule{method: method, fragment: fragment, status: http.StatusOK, body: body})
}

func (r *Recorder) addRule(ru rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, ru)
}

// RoundTrip implements http.RoundTripper.
func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	r.mu.Lock()
	r.requests = append(r.requests, Request{Method: req.Method, Path: req.URL.Path, Body: body})
	var (
		matched rule
		found   bool
	)
	for _, ru := range r.rules {
		if ru.method == req.Method && strings.Contains(req.URL.Path, ru.fragment) {
			matched, found = ru, true
		}
	}
	r.mu.Unlock()

	if found {
		return &http.Response{
			StatusCode: matched.status,
			Status:     strconv.Itoa(matched.status) + " " + http.StatusText(matched.status),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewBufferString(matched.body)),
			Request:    req,
		}, nil
	}

	id := strconv.FormatUint(900000000000000000+r.nextID.Add(1), 10)
	resp := `{"id":"` + id + `"}`
	if strings.HasSuffix(req.URL.Path, "/commands") {
		// Command listings and bulk overwrites answer with an array.
		resp = "[]"
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(resp)),
		Request:    req,
	}, nil
}

// Requests returns a copy of every recorded request.
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

// Find returns the recorded requests whose path contains fragment.
func (r *Recorder) Find(method, fragment string) []Request {
	var out []Request
	for _, req := range r.Requests() {
		if req.Method == method && strings.Contains(req.Path, fragment) {
			out = append(out, req)
		}
	}
	return out
}

// Replies decodes every interaction callback.
func (r *Recorder) Replies(t testing.TB) []Reply {
	t.Helper()
	var out []Reply
	for _, req := range r.Find(http.MethodPost, "/callback") {
		var reply Reply
		if err := json.Unmarshal(req.Body, &reply); err != nil {
			t.Fatalf("decoding interaction reply: %v", err)
		}
		out = append(out, reply)
	}
	return out
}

// LastReply returns the most recent interaction callback.
func (r *Recorder) LastReply(t testing.TB) Reply {
	t.Helper()
	replies := r.Replies(t)
	if len(replies) == 0 {
		t.Fatal("no interaction reply was sent")
	}
	return replies[len(replies)-1]
}

// LastEdit returns the content of the most recent edit of an original
// interaction response.
func (r *Recorder) LastEdit(t testing.TB) string {
	t.Helper()
	edits := r.Find(http.MethodPatch, "/messages/@original")
	if len(edits) == 0 {
		t.Fatal("no interaction response was edited")
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(edits[len(edits)-1].Body, &body); err != nil {
		t.Fatalf("decoding response edit: %v", err)
	}
	return body.Content
}

// Reset forgets recorded requests.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = nil
}

// NewSession returns a session with state enabled and REST calls recorded.
func NewSession(t testing.TB) (*discordgo.Session, *Recorder) {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	rec := &Recorder{}
	s.Client = &http.Client{Transport: rec}
	s.StateEnabled = true
	return s, rec
}

// AddGuild puts a guild in the session state.
func AddGuild(t testing.TB, s *discordgo.Session, guildID, ownerID string) {
	t.Helper()
	if err := s.State.GuildAdd(&discordgo.Guild{ID: guildID, OwnerID: ownerID}); err != nil {
		t.Fatalf("adding guild: %v", err)
	}
}

// Member describes who invokes an interaction.
type Member struct {
	UserID string
	Roles  []string
	Admin  bool
	Perms  int64
}

func (m Member) member() *discordgo.Member {
	perms := m.Perms
	if m.Admin {
		perms |= discordgo.PermissionAdministrator
	}
	return &discordgo.Member{
		User:        &discordgo.User{ID: m.UserID, Username: "user" + m.UserID},
		Roles:       m.Roles,
		Permissions: perms,
	}
}

var interactionSeq atomic.Uint64

func base(guildID, channelID string, m Member) *discordgo.Interaction {
	n := interactionSeq.Add(1)
	return &discordgo.Interaction{
		ID:        "i" + strconv.FormatUint(n, 10),
		Token:     "tok" + strconv.FormatUint(n, 10),
		GuildID:   guildID,
		ChannelID: channelID,
		Member:    m.member(),
	}
}

// Command builds a slash command interaction.
func Command(guildID, channelID string, m Member, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	i := base(guildID, channelID, m)
	i.Type = discordgo.InteractionApplicationCommand
	i.Data = discordgo.ApplicationCommandInteractionData{Name: name, Options: opts}
	return &discordgo.InteractionCreate{Interaction: i}
}

// Resolve attaches resolved users to a command interaction, the way Discord
// does for user options.
func Resolve(i *discordgo.InteractionCreate, users ...*discordgo.User) *discordgo.InteractionCreate {
	data := i.ApplicationCommandData()
	if data.Resolved == nil {
		data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{}
	}
	if data.Resolved.Users == nil {
		data.Resolved.Users = make(map[string]*discordgo.User)
	}
	for _, u := range users {
		data.Resolved.Users[u.ID] = u
	}
	i.Data = data
	return i
}

// Button builds a component press.
func Button(guildID, channelID string, m Member, customID string) *discordgo.InteractionCreate {
	i := base(guildID, channelID, m)
	i.Type = discordgo.InteractionMessageComponent
	i.Data = discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent}
	return &discordgo.InteractionCreate{Interaction: i}
}

// Modal builds a modal submit with one text input per field.
func Modal(guildID, channelID string, m Member, customID string, fields map[string]string) *discordgo.InteractionCreate {
	i := base(guildID, channelID, m)
	i.Type = discordgo.InteractionModalSubmit
	rows := make([]discordgo.MessageComponent, 0, len(fields))
	for id, v := range fields {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: v},
		}})
	}
	i.Data = discordgo.ModalSubmitInteractionData{CustomID: customID, Components: rows}
	return &discordgo.InteractionCreate{Interaction: i}
}

// Sub builds a subcommand option.
func Sub(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}
}

// String builds a string option.
func String(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

// Int builds an integer option. Discord sends integers as JSON numbers.
func Int(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

// Number builds a number option.
func Number(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: v}
}

// Bool builds a boolean option.
func Bool(name string, v bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: v}
}

// User builds a user option.
func User(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: id}
}

// Role builds a role option.
func Role(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionRole, Value: id}
}

// Channel builds a channel option.
func Channel(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionChannel, Value: id}
}
