package dev

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/errors"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
)

func createStorageCommand() *discord.Command {
	return discord.NewCommand(
		"storage",
		"Estado del almacenamiento y del limitador",
		"dev",
		developer(storageHandler),
	).OwnerOnly()
}

func storageHandler(ctx *discord.CommandContext) error {
	svc := ctx.Services()
	status, _ := svc.Store.Status()

	tracked := 0
	if svc.Limiter != nil {
		tracked = svc.Limiter.Len()
	}
	var crashes int64
	if h := errors.Get(); h != nil {
		crashes = h.TotalErrors()
	}

	return ctx.ReplyEphemeral(fmt.Sprintf(
		"🗄️ **Almacenamiento**\n"+
			"• Estado: %s\n"+
			"• Claves en el limitador: %d\n"+
			"• Errores capturados: %d",
		status, tracked, crashes,
	))
}

func createCacheCommand() *discord.Command {
	return discord.NewCommand(
		"cache",
		"Vacía y vuelve a cargar la caché de colecciones",
		"dev",
		developer(cacheHandler),
	).OwnerOnly()
}

func cacheHandler(ctx *discord.CommandContext) error {
	store := ctx.Services().Store
	store.ClearCache()
	store.PrimeCache()
	logger.Info("Caché de colecciones recargada por "+ctx.User().ID, "Dev")
	return ctx.ReplyEphemeral("♻️ Caché recargada.")
}

func createReloadDefaultsCommand() *discord.Command {
	return discord.NewCommand(
		"reload_defaults",
		"Vuelve a leer el archivo de valores por defecto",
		"dev",
		developer(reloadDefaultsHandler),
	).OwnerOnly()
}

func reloadDefaultsHandler(ctx *discord.CommandContext) error {
	defaults, err := ctx.Services().Config.ReloadDefaults()
	if err != nil {
		logger.Error("No se pudieron recargar los valores por defecto: "+err.Error(), "Dev")
		return ctx.ReplyEphemeral("❌ No se pudieron recargar los valores por defecto: " + err.Error())
	}
	payments := "ninguno"
	if len(defaults.Defaults.Payments) > 0 {
		payments = strings.Join(defaults.Defaults.Payments, ", ")
	}
	return ctx.ReplyEphemeral("✅ Valores por defecto recargados.\nMétodos de pago: " + payments)
}
