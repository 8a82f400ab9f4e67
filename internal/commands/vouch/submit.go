package vouch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
)

// Form input IDs.
const (
	inputProduct = "product"
	inputValue   = "value"
	inputReview  = "review"
	inputRating  = "rating"
)

// sellerFrom extracts the seller ID appended to a custom ID.
func sellerFrom(customID, prefix string) string {
	id := strings.TrimPrefix(customID, prefix+":")
	if id == customID {
		return ""
	}
	return id
}

// submitButtonHandler opens the vouch form.
func submitButtonHandler(ctx *discord.CommandContext) error {
	sellerID := sellerFrom(ctx.CustomID(), SubmitButtonID)
	if sellerID == "" {
		return ctx.ReplyEphemeral("❌ No se pudo determinar el vendedor.")
	}
	if sellerID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes darte vouch a ti mismo.")
	}

	return ctx.ShowModal(FormID+":"+sellerID, "Enviar vouch",
		discordgo.TextInput{CustomID: inputProduct, Label: "Producto o servicio", Style: discordgo.TextInputShort, Required: true, MaxLength: 100},
		discordgo.TextInput{CustomID: inputValue, Label: "Valor (USD)", Style: discordgo.TextInputShort, Required: true, MaxLength: 20, Placeholder: "50.00"},
		discordgo.TextInput{CustomID: inputReview, Label: "Reseña", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 1000},
		discordgo.TextInput{CustomID: inputRating, Label: "Valoración (1-5)", Style: discordgo.TextInputShort, Required: true, MaxLength: 1},
	)
}

// formHandler records a submitted vouch and posts it.
func formHandler(ctx *discord.CommandContext) error {
	sellerID := sellerFrom(ctx.CustomID(), FormID)
	if sellerID == "" {
		return ctx.ReplyEphemeral("❌ No se pudo determinar el vendedor.")
	}

	owner, err := ctx.IsOwner()
	if err != nil {
		return ctx.Fail(err)
	}
	if !owner && !ctx.Throttle(ratelimit.Vouch) {
		return nil
	}

	rating, err := strconv.Atoi(strings.TrimSpace(ctx.ModalValue(inputRating)))
	if err != nil {
		return ctx.ReplyEphemeral("❌ Valoración inválida. Escribe un número del 1 al 5.")
	}
	value, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(ctx.ModalValue(inputValue)), "$"), 64)
	if err != nil {
		return ctx.ReplyEphemeral("❌ Valor inválido. Escribe un número (por ejemplo 50.00).")
	}

	v, err := ctx.Services().Data.RecordVouch(ctx.GuildID(), sellerID, database.VouchInput{
		VouchedByID: ctx.User().ID,
		Product:     ctx.ModalValue(inputProduct),
		Value:       value,
		Review:      ctx.ModalValue(inputReview),
		Rating:      rating,
	})
	switch {
	case errors.Is(err, database.ErrSelfVouch):
		return ctx.ReplyEphemeral("❌ No puedes darte vouch a ti mismo.")
	case errors.Is(err, database.ErrInvalidVouch):
		return ctx.ReplyEphemeral("❌ La valoración debe estar entre 1 y 5 y el valor debe ser mayor que 0.")
	case err != nil:
		return ctx.Fail(err)
	}

	post := fmt.Sprintf("**Vouch #%d** por <@%s>\n> %s\n**Vendedor:** <@%s> | **Producto ($%.2f):** %s | %s",
		v.VouchNumber, v.VouchedByID, v.Review, sellerID, v.Value, v.Product, strings.Repeat("⭐", v.Rating))

	target := ctx.ChannelID()
	cfg, err := ctx.GuildConfig()
	if err == nil && cfg.Channels.Vouches != "" {
		target = cfg.Channels.Vouches.String()
	}
	if _, err := ctx.Session.ChannelMessageSend(target, post); err != nil {
		ctx.ReplyEphemeral("⚠️ Tu vouch se guardó, pero no se pudo publicar. Avisa a un administrador.")
		return fmt.Errorf("posting vouch: %w", err)
	}

	ctx.LogToGuild(fmt.Sprintf("⭐ <@%s> dejó un vouch de %d estrellas a <@%s>", v.VouchedByID, v.Rating, sellerID))
	return ctx.ReplyEphemeral("✅ ¡Tu vouch ha sido publicado!")
}
