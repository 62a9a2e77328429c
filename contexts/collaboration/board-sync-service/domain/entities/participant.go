package entities

// Participant is the connection-scoped presence entry for one session.
// Rosters are keyed by connection id, so one participant with several open
// tabs appears once per connection.
type Participant struct {
	ConnectionID  string
	ParticipantID string
	Name          string
	Ready         bool
}
