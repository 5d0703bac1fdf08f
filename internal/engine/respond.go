package engine

import (
	"fmt"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/resolve"
)

const helpText = `I can answer questions about the tour. Try things like:
- "what time is soundcheck in sydney"
- "where is the show in melbourne"
- "when is the next flight to auckland"
- "what is backline"
Ask about shows, flights, or any tour term you'd find on a day sheet.`

// apologies is the fixed fallback set; one is picked uniformly at random.
var apologies = []string{
	"Sorry, I don't have an answer for that yet.",
	"I'm not sure about that one.",
	"I couldn't find anything on that, sorry.",
	"That's not something I know about yet.",
}

func (e *Engine) apology() string {
	return apologies[e.pick(len(apologies))]
}

// render maps a retrieval result onto its response text and type. Every
// branch except the fallback is a pure function of the result.
func (e *Engine) render(res model.RetrievalResult) (string, model.ResponseType) {
	switch res.Kind {
	case model.ResultContextualTerm:
		if resolve.IsTimeKey(res.Field) {
			return fmt.Sprintf("The %s for the show in %s is at %s.", res.Term, res.City, res.Value), model.ResponseAnswer
		}
		return fmt.Sprintf("The %s for the show in %s is %s.", res.Term, res.City, res.Value), model.ResponseAnswer

	case model.ResultContextualLocation:
		return fmt.Sprintf("The show in %s is at %s.", res.City, res.Place), model.ResponseAnswer

	case model.ResultGenericTerm:
		return res.Definition, model.ResponseAnswer

	case model.ResultTravelSchedule:
		return res.Text, model.ResponseSchedule

	default:
		return e.apology(), model.ResponseFallback
	}
}
