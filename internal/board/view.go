package board

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// Fixed page texts.
const (
	PlaceholderLabel   = "-- Select an activity --"
	LoadFailedText     = "Failed to load activities. Please try again later."
	NoParticipantsText = "No participants yet"
)

// View is everything the activity list and the selection control show.
type View struct {
	Cards     []Card
	Options   []Option
	LoadError string
}

// Card is one activity in the list.
type Card struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []Participant
}

// ParticipantsHeader returns the "Participants (N)" heading.
func (c Card) ParticipantsHeader() string {
	return fmt.Sprintf("Participants (%d)", len(c.Participants))
}

// Participant is one row of a card with the data its delete control carries.
type Participant struct {
	Activity string
	Email    string
}

// Option is an entry of the activity selection control.
type Option struct {
	Value string
	Label string
}

func placeholderOption() Option {
	return Option{Value: "", Label: PlaceholderLabel}
}

// buildView renders a snapshot into cards and options, in snapshot order.
func buildView(snap model.Snapshot) View {
	v := View{
		Cards:   make([]Card, 0, len(snap)),
		Options: make([]Option, 0, len(snap)+1),
	}
	v.Options = append(v.Options, placeholderOption())

	for _, na := range snap {
		card := Card{
			Name:        na.Name,
			Description: na.Description,
			Schedule:    na.Schedule,
			SpotsLeft:   na.SpotsLeft(),
		}
		for _, email := range na.Participants {
			card.Participants = append(card.Participants, Participant{Activity: na.Name, Email: email})
		}
		v.Cards = append(v.Cards, card)
		v.Options = append(v.Options, Option{Value: na.Name, Label: na.Name})
	}
	return v
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML stringifies v and escapes & < > " ' to their entities. nil yields "".
func EscapeHTML(v any) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	return htmlEscaper.Replace(s)
}
