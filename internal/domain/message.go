package domain

// ChatMessage is one entry of a session-local transcript. Seq is
// assigned by the transcript and strictly increases within a session;
// it is not globally unique and does not survive a room switch.
type ChatMessage struct {
	Seq    int    `json:"seq"`
	Author string `json:"author"`
	Body   string `json:"body"`
}
