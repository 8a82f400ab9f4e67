package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// invitePermissions is what the bot needs to run tickets without administrator.
const invitePermissions = discordgo.PermissionManageChannels |
	discordgo.PermissionManageMessages |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionUseExternalEmojis |
	discordgo.PermissionAddReactions |
	discordgo.PermissionManageWebhooks |
	discordgo.PermissionViewChannel

func createViewCommand() *discord.Command {
	return discord.NewCommand("view", "Muestra la configuración actual", "config", viewHandler).OwnerOnly()
}

func viewHandler(ctx *discord.CommandContext) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return ctx.Fail(err)
	}

	var b strings.Builder
	b.WriteString("🔧 **Configuración del servidor**\n")
	fmt.Fprintf(&b, "\n**Rol de staff:** %s", roleMention(cfg.StaffRole))

	owners := make([]string, 0, len(cfg.Owners))
	for _, id := range cfg.Owners {
		owners = append(owners, "<@"+id.String()+">")
	}
	if len(owners) == 0 {
		owners = append(owners, "ninguno")
	}
	fmt.Fprintf(&b, "\n**Dueños:** %s", strings.Join(owners, ", "))

	b.WriteString("\n\n**Canales**")
	fmt.Fprintf(&b, "\n• Tickets: %s", channelMention(cfg.Channels.Tickets))
	fmt.Fprintf(&b, "\n• Vouches: %s", channelMention(cfg.Channels.Vouches))
	fmt.Fprintf(&b, "\n• Logs: %s", channelMention(cfg.Channels.Logs))
	fmt.Fprintf(&b, "\n• Anuncios: %s", channelMention(cfg.Channels.Announcements))

	b.WriteString("\n\n**Categorías de tickets**")
	for _, t := range models.TicketTypes {
		c := cfg.Category(t)
		state := "✅"
		if !c.Enabled {
			state = "❌"
		}
		fmt.Fprintf(&b, "\n%s %s", state, t)
		if c.CategoryID != "" {
			fmt.Fprintf(&b, " → <#%s>", c.CategoryID)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(formatPrices(cfg))
	return ctx.ReplyEphemeral(b.String())
}

func roleMention(id models.FlexibleID) string {
	if id == "" {
		return "sin configurar"
	}
	return "<@&" + id.String() + ">"
}

func channelMention(id models.FlexibleID) string {
	if id == "" {
		return "sin configurar"
	}
	return "<#" + id.String() + ">"
}

func createInviteCommand() *discord.Command {
	return discord.NewCommand("invite", "Genera el enlace de invitación del bot", "config", inviteHandler).
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "admin",
			Description: "Incluir permisos de administrador",
		}).OwnerOnly()
}

func inviteHandler(ctx *discord.CommandContext) error {
	clientID := ctx.Services().Config.Defaults().ClientID.String()
	if clientID == "" {
		clientID, _ = ctx.Client.Identity()
	}
	if clientID == "" {
		return ctx.ReplyEphemeral("❌ No hay client_id configurado en el archivo de configuración.")
	}

	perms := int64(invitePermissions)
	label := "Permisos estándar"
	if ctx.GetBoolOption("admin") {
		perms |= discordgo.PermissionAdministrator
		label = "Administrador"
	}
	url := fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands", clientID, perms)
	return ctx.ReplyEphemeral(fmt.Sprintf("🤖 **Invitación del bot** (%s)\n%s", label, url))
}

func createImagesCommand() *discord.Command {
	return discord.NewCommand("images", "Configura los banners de los tickets", "config", imagesHandler).
		WithOptions(
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "tickets", Description: "URL del banner de tickets"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "mfa", Description: "URL del banner de MFA"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "coins", Description: "URL del banner de coins"},
		).OwnerOnly()
}

func imagesHandler(ctx *discord.CommandContext) error {
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return ctx.Fail(err)
	}
	images := cfg.Images
	changed := map[string]string{}
	for name, field := range map[string]*string{
		"tickets": &images.TicketBanner,
		"mfa":     &images.MFABanner,
		"coins":   &images.CoinBanner,
	} {
		if !ctx.HasOption(name) {
			continue
		}
		url := strings.TrimSpace(ctx.GetStringOption(name))
		if url != "" && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
			return ctx.ReplyEphemeral(fmt.Sprintf("❌ La URL de %s no es válida.", name))
		}
		*field = url
		changed[name] = url
	}
	if len(changed) == 0 {
		return ctx.ReplyEphemeral("❌ Indica al menos un banner.")
	}

	if _, err := ctx.Services().Config.SetImages(ctx.GuildID(), images); err != nil {
		return ctx.Fail(err)
	}
	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return ctx.ReplyEphemeral("✅ Banners actualizados: " + strings.Join(names, ", "))
}
