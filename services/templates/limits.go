package templates

import "aircare/models"

// ChannelLimit is the recommended and hard character limit of a channel.
type ChannelLimit struct {
	Recommended int `json:"recommended"`
	Max         int `json:"max"`
}

// ChannelLimits sizes preview configs and validation per message type.
var ChannelLimits = map[models.MessageType]ChannelLimit{
	models.MessageSMS:      {Recommended: 160, Max: 160},
	models.MessagePush:     {Recommended: 500, Max: 1000},
	models.MessageWhatsApp: {Recommended: 500, Max: 1000},
	models.MessageEmail:    {Recommended: 5000, Max: 10000},
}

// LimitFor falls back to the push limits for unknown channels.
func LimitFor(t models.MessageType) ChannelLimit {
	if l, ok := ChannelLimits[t]; ok {
		return l
	}
	return ChannelLimits[models.MessagePush]
}
