package mon

import "encoding/json"

// Event is one observed frame.
type Event struct {
	// Source names the wire end which received the frame.
	Source string `json:"source"`
	// Tick is the simulation tick at which the frame completed.
	Tick uint64 `json:"tick"`
	// Data is the received word, right aligned.
	Data uint16 `json:"data"`
	// Err is set when the frame carried a parity or framing fault.
	Err bool `json:"err,omitempty"`
	// Config describes the receiving line discipline, e.g. "8N1@100".
	Config string `json:"config,omitempty"`
}

// Encode serializes the event for publishing.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent deserializes a published event.
func DecodeEvent(payload []byte) (*Event, error) {
	ev := &Event{}
	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, err
	}
	return ev, nil
}
