// Package discord provides command types and structures.
package discord

import (
	"fmt"
	"strconv"

	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
)

// Access is who may run a command or press a component.
type Access int

const (
	AccessEveryone Access = iota
	// AccessStaff admits guild owners and members with the staff role.
	AccessStaff
	// AccessOwner admits the app owner, configured guild owners and the guild owner.
	AccessOwner
	// AccessModerator is AccessStaff plus members allowed to manage messages.
	AccessModerator
)

func (a Access) deniedMessage() string {
	switch a {
	case AccessOwner:
		return "❌ Solo los dueños de la tienda pueden usar esto."
	case AccessStaff:
		return "❌ Solo el staff puede usar esto."
	case AccessModerator:
		return "❌ Necesitas permisos de moderación para usar esto."
	default:
		return "❌ No tienes permiso para usar esto."
	}
}

// CommandContext provides context for command execution
type CommandContext struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient
}

// Command represents a Discord slash command
type Command struct {
	Name            string
	Description     string
	Category        string
	Options         []*discordgo.ApplicationCommandOption
	UserPermissions int64
	BotPermissions  int64
	IsDev           bool
	Access          Access
	Run             CommandRunFunc
	AutoComplete    AutoCompleteFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// AutoCompleteFunc is the function type for autocomplete handling
type AutoCompleteFunc func(ctx *CommandContext)

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// WithUserPermissions sets required user permissions
func (c *Command) WithUserPermissions(perms int64) *Command {
	c.UserPermissions = perms
	return c
}

// WithBotPermissions sets required bot permissions
func (c *Command) WithBotPermissions(perms int64) *Command {
	c.BotPermissions = perms
	return c
}

// AsDev marks the command as a dev-only command
func (c *Command) AsDev() *Command {
	c.IsDev = true
	return c
}

// StaffOnly restricts the command to staff and owners.
func (c *Command) StaffOnly() *Command {
	c.Access = AccessStaff
	return c
}

// ModeratorOnly restricts the command to AccessModerator.
func (c *Command) ModeratorOnly() *Command {
	c.Access = AccessModerator
	return c
}

// OwnerOnly restricts the command to owners.
func (c *Command) OwnerOnly() *Command {
	c.Access = AccessOwner
	return c
}

// WithAutoComplete sets the autocomplete handler
func (c *Command) WithAutoComplete(fn AutoCompleteFunc) *Command {
	c.AutoComplete = fn
	return c
}

// ToApplicationCommand converts the command to a Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

// Reply sends a reply to the interaction
func (ctx *CommandContext) Reply(content string) error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// ReplyEphemeral sends an ephemeral reply visible only to the user
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// ReplyWithComponents sends a reply carrying message components.
func (ctx *CommandContext) ReplyWithComponents(content string, components ...discordgo.MessageComponent) error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
}

// Defer defers the interaction response
func (ctx *CommandContext) Defer() error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// DeferEphemeral defers with a response only the user will see.
func (ctx *CommandContext) DeferEphemeral() error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

// EditReply edits the original interaction response
func (ctx *CommandContext) EditReply(content string) error {
	_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

// ShowModal answers the interaction with a form of single-line text inputs.
func (ctx *CommandContext) ShowModal(customID, title string, inputs ...discordgo.TextInput) error {
	rows := make([]discordgo.MessageComponent, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{in}})
	}
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: rows,
		},
	})
}

// CustomID returns the custom ID of a component press or modal submit.
func (ctx *CommandContext) CustomID() string {
	switch ctx.Interaction.Type {
	case discordgo.InteractionMessageComponent:
		return ctx.Interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return ctx.Interaction.ModalSubmitData().CustomID
	}
	return ""
}

// ModalValue returns the value typed into a modal text input.
func (ctx *CommandContext) ModalValue(inputID string) string {
	if ctx.Interaction.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, c := range ctx.Interaction.ModalSubmitData().Components {
		var children []discordgo.MessageComponent
		switch row := c.(type) {
		case *discordgo.ActionsRow:
			children = row.Components
		case discordgo.ActionsRow:
			children = row.Components
		}
		for _, child := range children {
			switch in := child.(type) {
			case *discordgo.TextInput:
				if in.CustomID == inputID {
					return in.Value
				}
			case discordgo.TextInput:
				if in.CustomID == inputID {
					return in.Value
				}
			}
		}
	}
	return ""
}

// SendAutoCompleteChoices answers an autocomplete interaction.
func (ctx *CommandContext) SendAutoCompleteChoices(choices []*discordgo.ApplicationCommandOptionChoice) error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if ctx.Interaction.Type != discordgo.InteractionApplicationCommand &&
		ctx.Interaction.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return nil
	}
	options := ctx.Interaction.ApplicationCommandData().Options
	return findOption(options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value
func (ctx *CommandContext) GetIntOption(name string) int64 {
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

// GetFloatOption retrieves a number option value
func (ctx *CommandContext) GetFloatOption(name string) float64 {
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.FloatValue()
}

// GetBoolOption retrieves a boolean option value
func (ctx *CommandContext) GetBoolOption(name string) bool {
	opt := ctx.GetOption(name)
	if opt == nil {
		return false
	}
	return opt.BoolValue()
}

// HasOption reports whether the user filled in an optional option.
func (ctx *CommandContext) HasOption(name string) bool {
	return ctx.GetOption(name) != nil
}

// GetUserIDOption returns the ID of a user option. It does not hit the API.
func (ctx *CommandContext) GetUserIDOption(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	if id, ok := opt.Value.(string); ok {
		return id
	}
	return ""
}

// ResolvedUser returns the user Discord resolved for a user option, or nil
// when the payload carries none.
func (ctx *CommandContext) ResolvedUser(id string) *discordgo.User {
	if ctx.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	resolved := ctx.Interaction.ApplicationCommandData().Resolved
	if resolved == nil || resolved.Users == nil {
		return nil
	}
	return resolved.Users[id]
}

// GetRoleIDOption returns the ID of a role option.
func (ctx *CommandContext) GetRoleIDOption(name string) string {
	return ctx.GetUserIDOption(name)
}

// GetChannelIDOption returns the ID of a channel option.
func (ctx *CommandContext) GetChannelIDOption(name string) string {
	return ctx.GetUserIDOption(name)
}

// GuildID returns the guild of the interaction, empty in DMs.
func (ctx *CommandContext) GuildID() string {
	return ctx.Interaction.GuildID
}

// ChannelID returns the channel of the interaction.
func (ctx *CommandContext) ChannelID() string {
	return ctx.Interaction.ChannelID
}

// Guild returns the guild where the interaction occurred
func (ctx *CommandContext) Guild() *discordgo.Guild {
	if ctx.Interaction.GuildID == "" {
		return nil
	}
	guild, _ := ctx.Session.State.Guild(ctx.Interaction.GuildID)
	return guild
}

// User returns the user who triggered the interaction
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.Interaction.Member != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}

// Services returns the storefront components of the client.
func (ctx *CommandContext) Services() Services {
	return ctx.Client.Services
}

// GuildConfig resolves the configuration of the current guild.
func (ctx *CommandContext) GuildConfig() (*models.GuildConfig, error) {
	return ctx.Client.Services.Config.Resolve(ctx.GuildID())
}

// IsAdmin reports whether the member holds the Administrator permission.
func (ctx *CommandContext) IsAdmin() bool {
	m := ctx.Member()
	return m != nil && m.Permissions&discordgo.PermissionAdministrator != 0
}

func (ctx *CommandContext) guildOwnerID() string {
	if g := ctx.Guild(); g != nil {
		return g.OwnerID
	}
	return ""
}

// IsOwner reports whether the user owns the app, the store or the guild.
func (ctx *CommandContext) IsOwner() (bool, error) {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return false, err
	}
	return guildconfig.IsOwner(ctx.Client.Services.Config.AppOwnerID(), cfg, ctx.User().ID, ctx.guildOwnerID()), nil
}

// IsStaff reports whether the member has the configured staff role. Guilds
// without a staff role have no staff.
func (ctx *CommandContext) IsStaff() (bool, error) {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return false, err
	}
	var roles []string
	if m := ctx.Member(); m != nil {
		roles = m.Roles
	}
	return guildconfig.IsStaff(cfg, roles, ctx.IsAdmin()), nil
}

// HasAccess evaluates an access level for the invoking user.
func (ctx *CommandContext) HasAccess(a Access) (bool, error) {
	switch a {
	case AccessEveryone:
		return true, nil
	case AccessOwner:
		return ctx.IsOwner()
	case AccessStaff, AccessModerator:
		owner, err := ctx.IsOwner()
		if err != nil || owner {
			return owner, err
		}
		if a == AccessModerator {
			if m := ctx.Member(); m != nil && m.Permissions&discordgo.PermissionManageMessages != 0 {
				return true, nil
			}
		}
		return ctx.IsStaff()
	}
	return false, nil
}

// Throttle records one use of policy for the user. When the user is over the
// limit it answers the interaction and returns false.
func (ctx *CommandContext) Throttle(p ratelimit.Policy) bool {
	limiter := ctx.Client.Services.Limiter
	if limiter == nil {
		return true
	}
	decision, err := limiter.Check(ctx.User().ID, p)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en el limitador (%s): %v", p.Action, err), "Client")
		return true
	}
	if decision.Allowed {
		return true
	}
	ctx.ReplyEphemeral(fmt.Sprintf("⏳ Vas demasiado rápido. Espera %s segundos.",
		strconv.FormatFloat(decision.RetryAfter.Seconds(), 'f', 1, 64)))
	return false
}

// Fail logs err and tells the user something went wrong. It returns err so
// callers can `return ctx.Fail(err)`.
func (ctx *CommandContext) Fail(err error) error {
	ctx.ReplyEphemeral("❌ Ocurrió un error procesando tu solicitud.")
	return err
}

// LogToGuild posts content to the logs channel of the guild, if one is set.
func (ctx *CommandContext) LogToGuild(content string) {
	ctx.Client.LogToGuild(ctx.GuildID(), content)
}
