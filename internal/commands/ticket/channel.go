package ticket

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
)

const (
	memberAllow = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles
	botAllow    = memberAllow | discordgo.PermissionManageChannels | discordgo.PermissionManageMessages
)

// order is one /order submission, ready to become a ticket.
type order struct {
	Type    models.TicketType
	Name    string
	Summary string
	Total   float64
	Payload map[string]any
}

// channelName turns parts into a Discord-safe text channel name.
func channelName(parts ...string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.Join(parts, "-")) {
		switch {
		case r == '+':
			b.WriteString("plus")
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '.':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	if name == "" {
		name = "ticket"
	}
	return name
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// overwrites hides the channel from everyone except the opener, the staff
// role and the bot.
func overwrites(ctx *discord.CommandContext, cfg *models.GuildConfig) []*discordgo.PermissionOverwrite {
	out := []*discordgo.PermissionOverwrite{
		{ID: ctx.GuildID(), Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: ctx.User().ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
	}
	if cfg.StaffRole != "" {
		out = append(out, &discordgo.PermissionOverwrite{
			ID: cfg.StaffRole.String(), Type: discordgo.PermissionOverwriteTypeRole, Allow: memberAllow,
		})
	}
	if botID, _ := ctx.Client.Identity(); botID != "" {
		out = append(out, &discordgo.PermissionOverwrite{
			ID: botID, Type: discordgo.PermissionOverwriteTypeMember, Allow: botAllow,
		})
	}
	return out
}

// loadCategory resolves the guild config and answers the user when the
// ticket category is disabled.
func loadCategory(ctx *discord.CommandContext, t models.TicketType) (*models.GuildConfig, bool, error) {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return nil, false, err
	}
	if !cfg.Category(t).Enabled {
		ctx.ReplyEphemeral("❌ Esta categoría de tickets está deshabilitada en este servidor.")
		return nil, false, nil
	}
	return cfg, true, nil
}

// paymentAutoComplete suggests the payment methods the guild accepts.
func paymentAutoComplete(ctx *discord.CommandContext) {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return
	}
	typed := strings.ToLower(ctx.GetStringOption("pago"))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cfg.Payments))
	for _, p := range cfg.Payments {
		if typed != "" && !strings.Contains(strings.ToLower(p), typed) {
			continue
		}
		if len(choices) == 25 {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: p, Value: p})
	}
	ctx.SendAutoCompleteChoices(choices)
}

// paymentOption is the "pago" option shared by every order.
func paymentOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "pago",
		Description:  "Método de pago",
		Required:     true,
		MaxLength:    50,
		Autocomplete: true,
	}
}

// openTicket runs the shared part of every /order subcommand: category
// check, rate limit, channel creation, ticket record and welcome message.
func openTicket(ctx *discord.CommandContext, cfg *models.GuildConfig, o order) error {
	category := cfg.Category(o.Type)
	if !ctx.Throttle(ratelimit.CreateTicket) {
		return nil
	}
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	ch, err := ctx.Session.GuildChannelCreateComplex(ctx.GuildID(), discordgo.GuildChannelCreateData{
		Name:                 o.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             category.CategoryID.String(),
		PermissionOverwrites: overwrites(ctx, cfg),
	})
	if err != nil {
		editErr := ctx.EditReply("❌ No se pudo crear el canal del ticket. Revisa que el bot tenga el permiso **Gestionar canales**.")
		return errors.Join(fmt.Errorf("creating ticket channel: %w", err), editErr)
	}

	if _, err := ctx.Services().Tickets.Create(ctx.GuildID(), ch.ID, ctx.User().ID, o.Type, o.Payload); err != nil {
		if _, delErr := ctx.Session.ChannelDelete(ch.ID); delErr != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el canal huérfano %s: %v", ch.ID, delErr), "Tickets")
		}
		editErr := ctx.EditReply("❌ No se pudo registrar el ticket, intenta de nuevo.")
		return errors.Join(err, editErr)
	}

	mention := "<@" + ctx.User().ID + ">"
	if cfg.StaffRole != "" {
		mention = "<@&" + cfg.StaffRole.String() + "> " + mention
	}
	_, err = ctx.Session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: mention + "\n" + o.Summary,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Cerrar ticket",
					Style:    discordgo.DangerButton,
					CustomID: CloseButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "🔒"},
				},
			}},
		},
	})
	if err != nil {
		editErr := ctx.EditReply(fmt.Sprintf("⚠️ Ticket creado en <#%s>, pero no se pudo enviar el mensaje inicial.", ch.ID))
		return errors.Join(fmt.Errorf("sending ticket welcome: %w", err), editErr)
	}

	ctx.LogToGuild(fmt.Sprintf("🎫 <@%s> abrió un ticket `%s` en <#%s>", ctx.User().ID, o.Type, ch.ID))

	reply := fmt.Sprintf("✅ Tu ticket ha sido creado: <#%s>", ch.ID)
	if o.Total > 0 {
		reply += " | Total: " + formatPrice(o.Total)
	}
	return ctx.EditReply(reply)
}
