package natsbridge

import (
	"encoding/json"
	"fmt"

	"github.com/smazurov/obsctl/internal/events"
)

// SubjectEventsPrefix is the root of all published subjects.
const SubjectEventsPrefix = "obsctl.events"

// SubjectScene is where program scene switches are published.
func SubjectScene() string { return fmt.Sprintf("%s.scene", SubjectEventsPrefix) }

// SubjectStream is where output state changes are published.
func SubjectStream() string { return fmt.Sprintf("%s.stream", SubjectEventsPrefix) }

// SubjectStudio is where studio mode toggles are published.
func SubjectStudio() string { return fmt.Sprintf("%s.studio", SubjectEventsPrefix) }

// SubjectMedia is where media playback transitions are published.
func SubjectMedia() string { return fmt.Sprintf("%s.media", SubjectEventsPrefix) }

// SubjectSource is where scene item visibility changes are published.
func SubjectSource() string { return fmt.Sprintf("%s.source", SubjectEventsPrefix) }

// SubjectTally is where tally light transitions are published.
func SubjectTally() string { return fmt.Sprintf("%s.tally", SubjectEventsPrefix) }

// SubjectConnection is where OBS connection state changes are published.
func SubjectConnection() string { return fmt.Sprintf("%s.connection", SubjectEventsPrefix) }

// encode maps a bus event to its NATS subject and JSON payload.
// Event types without a subject are not exported over NATS.
func encode(ev any) (subject string, data []byte, err error) {
	switch ev.(type) {
	case events.SceneSwitchedEvent:
		subject = SubjectScene()
	case events.StreamStateChangedEvent:
		subject = SubjectStream()
	case events.StudioModeChangedEvent:
		subject = SubjectStudio()
	case events.MediaStateChangedEvent:
		subject = SubjectMedia()
	case events.SourceVisibilityEvent:
		subject = SubjectSource()
	case events.TallyChangedEvent:
		subject = SubjectTally()
	case events.ConnectionStateEvent:
		subject = SubjectConnection()
	default:
		return "", nil, fmt.Errorf("no subject for event type %T", ev)
	}

	data, err = json.Marshal(ev)
	return subject, data, err
}
