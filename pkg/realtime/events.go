package realtime

import "encoding/json"

// Event names exchanged over the WebSocket
const (
	EventJoinConference    = "join_conference"
	EventLeaveConference   = "leave_conference"
	EventJoined            = "joined"
	EventLeft              = "left"
	EventError             = "error"
	EventNewResponse       = "new_response"
	EventStatsUpdate       = "stats_update"
	EventSurveyActivated   = "survey_activated"
	EventSurveyDeactivated = "survey_deactivated"
)

// Message is the JSON envelope of every frame
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type roomRequest struct {
	ConferenceID uint `json:"conferenceId"`
}

type errorData struct {
	Message string `json:"message"`
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: raw})
}
