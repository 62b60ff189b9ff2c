package protocol

import (
	"encoding/xml"
	"strconv"
)

// ActionSkip is the action type sent when the agent passes its step.
const ActionSkip = "skip"

// AuthRequest is the first message sent on every connection.
type AuthRequest struct {
	Username string `xml:"username,attr"`
	Password string `xml:"password,attr"`
}

// Action answers one request-action by id.
type Action struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

func SkipAction(id int64) Action {
	return Action{Type: ActionSkip, ID: strconv.FormatInt(id, 10)}
}

type outbound struct {
	XMLName     xml.Name     `xml:"message"`
	AuthRequest *AuthRequest `xml:"auth-request,omitempty"`
	Action      *Action      `xml:"action,omitempty"`
}

// EncodeAuthRequest returns the XML document for req without the
// frame terminator.
func EncodeAuthRequest(req AuthRequest) ([]byte, error) {
	return xml.Marshal(outbound{AuthRequest: &req})
}

func EncodeAction(action Action) ([]byte, error) {
	return xml.Marshal(outbound{Action: &action})
}
