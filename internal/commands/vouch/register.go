// Package vouch provides the vouch flow: staff request a vouch inside a
// ticket, the buyer presses a button and fills in a form, and the vouch is
// recorded and posted.
package vouch

import (
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// Custom ID prefixes. The seller ID follows after a colon.
const (
	SubmitButtonID = "vouch:submit"
	FormID         = "vouch:form"
)

// RegisterVouchCommands registers /vouch, /vouches and the vouch components.
func RegisterVouchCommands(client *discord.ExtendedClient) {
	client.CommandHandler.RegisterCommand(createVouchCommand())
	client.CommandHandler.RegisterCommand(createVouchesCommand())

	client.CommandHandler.RegisterComponent(&discord.Component{ID: SubmitButtonID, Run: submitButtonHandler})
	client.CommandHandler.RegisterComponent(&discord.Component{ID: FormID, Run: formHandler})
}
