package domain

type NotifyMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type RosterPublishedMailData struct {
	RunID         string     `json:"runID"`
	Status        string     `json:"status"`
	ShiftCount    int        `json:"shiftCount"`
	Shortages     []Shortage `json:"shortages"`
	SolveDuration string     `json:"solveDuration"`
}

type RosterFailedMailData struct {
	RunID  string `json:"runID"`
	Mode   string `json:"mode"`
	Reason string `json:"reason"`
}
