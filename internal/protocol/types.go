package protocol

// Message types carried in the root element's type attribute.
const (
	TypeAuthResponse  = "auth-response"
	TypeSimStart      = "sim-start"
	TypeSimEnd        = "sim-end"
	TypeRequestAction = "request-action"
)

// Message is the closed set of inbound messages. Decode returns exactly
// one of AuthResponse, SimStart, SimEnd, RequestAction or Unknown.
type Message interface {
	Type() string
	isMessage()
}

type AuthResponse struct {
	Result string
}

// OK reports whether the server accepted the credentials.
func (m AuthResponse) OK() bool { return m.Result == "ok" }

type Role struct {
	Name    string
	Speed   int64
	Load    int64
	Battery int64
	Tools   []string
}

type SimStart struct {
	ID          string
	Map         string
	SeedCapital int64
	Steps       int64
	Team        string
	Role        Role
}

type SimEnd struct {
	Ranking int64
	Score   int64
}

// RequestAction asks for exactly one action for the current step. ID is
// the action id the reply must carry.
type RequestAction struct {
	Timestamp   int64
	Deadline    int64
	ID          int64
	Step        int64
	Charge      int64
	Load        int64
	Lat         float64
	Lon         float64
	RouteLength int64
	Money       int64
}

// Unknown is any message whose type this client does not handle.
type Unknown struct {
	Kind string
}

func (AuthResponse) Type() string  { return TypeAuthResponse }
func (SimStart) Type() string      { return TypeSimStart }
func (SimEnd) Type() string        { return TypeSimEnd }
func (RequestAction) Type() string { return TypeRequestAction }
func (m Unknown) Type() string     { return m.Kind }

func (AuthResponse) isMessage()  {}
func (SimStart) isMessage()      {}
func (SimEnd) isMessage()        {}
func (RequestAction) isMessage() {}
func (Unknown) isMessage()       {}
