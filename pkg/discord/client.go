// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/config"
	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/errors"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// Services are the storefront components commands run against.
type Services struct {
	Store   *database.Store
	Data    *database.Managers
	Config  *guildconfig.Resolver
	Tickets *tickets.Manager
	Limiter *ratelimit.Limiter
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	Components     *ComponentCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Services       Services
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string, services Services) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, services)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string, services Services) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	return NewClientWithSession(session, services), nil
}

// NewClientWithSession builds a client around an existing session.
func NewClientWithSession(session *discordgo.Session, services Services) *ExtendedClient {
	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		Components: NewComponentCollection(),
		Services:   services,
		isReady:    false,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)
	return c
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	if err := c.CommandHandler.LoadCommands(); err != nil {
		logger.Error("Failed to load commands: "+err.Error(), "Client")
		return err
	}

	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.HandleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// commandPath builds the registry key of an invoked command: "name",
// "name.sub" or "name.group.sub".
func commandPath(data discordgo.ApplicationCommandInteractionData) string {
	commandName := data.Name
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if len(opt.Options) > 0 {
				commandName = data.Name + "." + opt.Name + "." + opt.Options[0].Name
			}
		} else if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			commandName = data.Name + "." + opt.Name
		}
	}
	return commandName
}

// HandleInteraction routes an interaction to its command or component.
func (c *ExtendedClient) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer errors.RecoverMiddleware()()

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := c.Commands.Get(commandPath(i.ApplicationCommandData()))
		if ok && cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}

	case discordgo.InteractionApplicationCommand:
		commandName := commandPath(i.ApplicationCommandData())
		cmd, ok := c.Commands.Get(commandName)
		if !ok {
			logger.Warn("Command not found: "+commandName, "Client")
			return
		}
		if !c.allowed(ctx, cmd.Access) {
			return
		}
		if err := cmd.Run(ctx); err != nil {
			logger.Error("Error executing command "+commandName+": "+err.Error(), "Client")
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		comp, ok := c.Components.Match(customID)
		if !ok {
			logger.Debug("Componente sin handler: "+customID, "Client")
			return
		}
		if !c.allowed(ctx, comp.Access) {
			return
		}
		if err := comp.Run(ctx); err != nil {
			logger.Error("Error executing component "+customID+": "+err.Error(), "Client")
		}

	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		comp, ok := c.Components.Match(customID)
		if !ok {
			logger.Debug("Modal sin handler: "+customID, "Client")
			return
		}
		if !c.allowed(ctx, comp.Access) {
			return
		}
		if err := comp.Run(ctx); err != nil {
			logger.Error("Error executing modal "+customID+": "+err.Error(), "Client")
		}
	}
}

// allowed runs the checks shared by commands and components and answers
// the interaction when one fails.
func (c *ExtendedClient) allowed(ctx *CommandContext, access Access) bool {
	if ctx.GuildID() == "" {
		ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
		return false
	}

	// Owners can always lift their own blacklist entry.
	if access != AccessOwner {
		if err := c.BlacklistMiddleware(ctx); err != nil {
			return false
		}
	}

	ok, err := ctx.HasAccess(access)
	if err != nil {
		logger.Error(fmt.Sprintf("Error comprobando permisos en %s: %v", ctx.GuildID(), err), "Client")
		ctx.ReplyEphemeral("❌ No se pudo comprobar tus permisos, intenta de nuevo.")
		return false
	}
	if !ok {
		ctx.ReplyEphemeral(access.deniedMessage())
		return false
	}
	return true
}

// LogToGuild posts content to the logs channel of a guild, if one is set.
func (c *ExtendedClient) LogToGuild(guildID, content string) {
	if c.Services.Config == nil {
		return
	}
	cfg, err := c.Services.Config.Resolve(guildID)
	if err != nil || cfg.Channels.Logs == "" {
		return
	}
	if _, err := c.Session.ChannelMessageSend(cfg.Channels.Logs.String(), content); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo escribir en el canal de logs de %s: %v", guildID, err), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// Identity returns the bot user's ID and name, empty before login.
func (c *ExtendedClient) Identity() (id, username string) {
	if c.Session == nil || c.Session.State == nil || c.Session.State.User == nil {
		return "", ""
	}
	return c.Session.State.User.ID, c.Session.State.User.Username
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
