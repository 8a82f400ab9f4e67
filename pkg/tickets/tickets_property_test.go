package tickets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type modelState int

const (
	stateAbsent modelState = iota
	stateOpen
	stateClosed
)

func TestProperty_LifecycleMatchesModel(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("create/close follow OPEN -> CLOSED with no way back", prop.ForAll(
		func(ops []int) bool {
			m := newTestManager(t)
			model := map[string]modelState{}

			for _, op := range ops {
				channel := fmt.Sprint(1000 + (op/2)%4)
				state := model[channel]

				if op%2 == 0 {
					_, err := m.Create("42", channel, "5", models.TicketSellCoins, nil)
					switch state {
					case stateAbsent:
						if err != nil {
							return false
						}
						model[channel] = stateOpen
					default:
						if !errors.Is(err, ErrDuplicateTicket) {
							return false
						}
					}
					continue
				}

				_, err := m.Close("42", channel, "7")
				switch state {
				case stateAbsent:
					if !errors.Is(err, ErrNotFound) {
						return false
					}
				case stateOpen:
					if err != nil {
						return false
					}
					model[channel] = stateClosed
				case stateClosed:
					if !errors.Is(err, ErrAlreadyClosed) {
						return false
					}
				}
			}

			for channel, state := range model {
				got, err := m.Get("42", channel)
				if err != nil || got == nil {
					return false
				}
				if got.IsOpen != (state == stateOpen) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.IntRange(0, 15)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
