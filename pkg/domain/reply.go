package domain

// Reply is the agent's answer to one turn, with the resulting conversation position.
type Reply struct {
	Message string `json:"message"`
	Snapshot
}
