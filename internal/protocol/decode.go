package protocol

import (
	"strings"
)

// Decode parses one frame into a typed message. Non-XML input wraps
// ErrMalformedMessage; missing or unparsable fields of a known message
// type wrap ErrMissingField or ErrInvalidField.
func Decode(frame []byte) (Message, error) {
	root, err := Parse(frame)
	if err != nil {
		return nil, err
	}
	return DecodeElement(root)
}

func DecodeElement(root Element) (Message, error) {
	kind, _ := root.Attr("type")
	switch kind {
	case TypeAuthResponse:
		return decodeAuthResponse(root)
	case TypeSimStart:
		return decodeSimStart(root)
	case TypeSimEnd:
		return decodeSimEnd(root)
	case TypeRequestAction:
		return decodeRequestAction(root)
	default:
		return Unknown{Kind: kind}, nil
	}
}

func decodeAuthResponse(root Element) (Message, error) {
	body, err := root.requireFirst()
	if err != nil {
		return nil, err
	}
	result, _ := body.Attr("result")
	return AuthResponse{Result: result}, nil
}

func decodeSimStart(root Element) (Message, error) {
	sim, err := root.requireFirst()
	if err != nil {
		return nil, err
	}
	var m SimStart
	if m.ID, err = sim.requireAttr("id"); err != nil {
		return nil, err
	}
	if m.Map, err = sim.requireAttr("map"); err != nil {
		return nil, err
	}
	if m.SeedCapital, err = sim.intAttr("seedCapital"); err != nil {
		return nil, err
	}
	if m.Steps, err = sim.intAttr("steps"); err != nil {
		return nil, err
	}
	if m.Team, err = sim.requireAttr("team"); err != nil {
		return nil, err
	}

	role, err := sim.requireChild("role")
	if err != nil {
		return nil, err
	}
	if m.Role.Name, err = role.requireAttr("name"); err != nil {
		return nil, err
	}
	if m.Role.Speed, err = role.intAttr("speed"); err != nil {
		return nil, err
	}
	if m.Role.Load, err = role.intAttr("load"); err != nil {
		return nil, err
	}
	if m.Role.Battery, err = role.intAttr("battery"); err != nil {
		return nil, err
	}
	tools := role.ChildrenNamed("tool")
	m.Role.Tools = make([]string, 0, len(tools))
	for _, tool := range tools {
		m.Role.Tools = append(m.Role.Tools, strings.TrimSpace(tool.Text))
	}
	return m, nil
}

func decodeSimEnd(root Element) (Message, error) {
	end, err := root.requireFirst()
	if err != nil {
		return nil, err
	}
	var m SimEnd
	if m.Ranking, err = end.intAttr("ranking"); err != nil {
		return nil, err
	}
	if m.Score, err = end.intAttr("score"); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeRequestAction(root Element) (Message, error) {
	req, err := root.requireFirst()
	if err != nil {
		return nil, err
	}
	var m RequestAction
	if m.ID, err = req.intAttr("id"); err != nil {
		return nil, err
	}
	if m.Timestamp, err = root.intAttr("timestamp"); err != nil {
		return nil, err
	}
	if m.Deadline, err = req.intAttr("deadline"); err != nil {
		return nil, err
	}

	sim, err := req.requireChild("simulation")
	if err != nil {
		return nil, err
	}
	if m.Step, err = sim.intAttr("step"); err != nil {
		return nil, err
	}

	self, err := req.requireChild("self")
	if err != nil {
		return nil, err
	}
	if m.Charge, err = self.intAttr("charge"); err != nil {
		return nil, err
	}
	if m.Load, err = self.intAttr("load"); err != nil {
		return nil, err
	}
	if m.Lat, err = self.floatAttr("lat"); err != nil {
		return nil, err
	}
	if m.Lon, err = self.floatAttr("lon"); err != nil {
		return nil, err
	}
	if m.RouteLength, err = self.intAttrOr("routeLength", 0); err != nil {
		return nil, err
	}

	team, err := req.requireChild("team")
	if err != nil {
		return nil, err
	}
	if m.Money, err = team.intAttr("money"); err != nil {
		return nil, err
	}
	return m, nil
}
