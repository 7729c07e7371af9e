package twilio

import (
	"encoding/xml"
	"fmt"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// Renderer turns call replies into TwiML documents. The voice name and
// base URL are fixed per deployment.
type Renderer struct {
	voice   string
	baseURL string
}

func NewRenderer(voice, baseURL string) *Renderer {
	return &Renderer{voice: voice, baseURL: baseURL}
}

type say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type gather struct {
	XMLName            xml.Name `xml:"Gather"`
	Input              string   `xml:"input,attr"`
	Action             string   `xml:"action,attr"`
	Method             string   `xml:"method,attr"`
	SpeechTimeout      string   `xml:"speechTimeout,attr"`
	Language           string   `xml:"language,attr"`
	ActionOnEmptyResult string  `xml:"actionOnEmptyResult,attr"`
	Say                *say
}

type dial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:",chardata"`
}

type hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []interface{}
}

// Render produces the TwiML for one reply. Speech gathering posts back to
// the reply's path; empty speech still posts so silence can be re-prompted.
func (r *Renderer) Render(reply domain.CallReply) (string, error) {
	var doc response

	switch reply.Action {
	case domain.ActionGather:
		g := &gather{
			Input:               "speech",
			Action:              r.baseURL + reply.GatherPath,
			Method:              "POST",
			SpeechTimeout:       "auto",
			Language:            "en-US",
			ActionOnEmptyResult: "true",
		}
		if reply.Say != "" {
			g.Say = &say{Voice: r.voice, Text: reply.Say}
		}
		doc.Verbs = append(doc.Verbs, g)

	case domain.ActionTransfer:
		if reply.TransferTo == "" {
			doc.Verbs = append(doc.Verbs,
				&say{Voice: r.voice, Text: "Sorry, we could not take your order. Please call again later."},
				&hangup{},
			)
			break
		}
		doc.Verbs = append(doc.Verbs,
			&say{Voice: r.voice, Text: "Please hold while I transfer you to a team member."},
			&dial{Number: reply.TransferTo},
		)

	case domain.ActionHangup:
		if reply.Say != "" {
			doc.Verbs = append(doc.Verbs, &say{Voice: r.voice, Text: reply.Say})
		}
		doc.Verbs = append(doc.Verbs, &hangup{})

	default:
		return "", fmt.Errorf("twilio: unknown reply action %q", reply.Action)
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("twilio: render twiml: %w", err)
	}
	return xml.Header + string(body), nil
}
