package domain

// TurnInput is one transport event for a call: the call id plus whatever
// the telephony layer captured this turn.
type TurnInput struct {
	CallID      string
	CallerPhone string
	Utterance   string
	Confidence  string
}

// ReplyAction tells the transport what to do after speaking.
type ReplyAction string

const (
	// ActionGather speaks the prompt and listens for the next utterance.
	ActionGather ReplyAction = "gather"
	// ActionHangup speaks the prompt and ends the call.
	ActionHangup ReplyAction = "hangup"
	// ActionTransfer hands the call to a human operator. If no transfer
	// target is configured the transport apologizes and hangs up.
	ActionTransfer ReplyAction = "transfer"
)

// CallReply is the transport-agnostic outcome of one turn: what to say
// and what to do next. The telephony adapter renders it.
type CallReply struct {
	Say        string
	Action     ReplyAction
	GatherPath string // webhook path the next utterance should be posted to
	TransferTo string // operator number for ActionTransfer, may be empty
}
