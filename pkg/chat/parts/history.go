package parts

// History is the ordered log of messages exchanged with the model. It only
// grows: there is no way to remove or rewrite an entry.
type History struct {
	messages []Message
}

func (h *History) Append(m Message) {
	h.messages = append(h.messages, m)
}

// Snapshot returns a copy of the messages, oldest first.
func (h *History) Snapshot() []Message {
	return append([]Message(nil), h.messages...)
}

func (h *History) Len() int {
	return len(h.messages)
}

// Last returns the most recent message, if any.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
