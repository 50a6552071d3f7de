package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel_Channel(t *testing.T) {
	tests := []struct {
		label    Label
		expected Channel
	}{
		{Reflect(LobeDiffuse), ChannelDiffuse},
		{Reflect(LobeGlossy), ChannelGlossy},
		{Reflect(LobeSingular), ChannelGlossy},
		{Transmit(LobeSingular), ChannelTransmission},
		{Transmit(LobeTransparent), ChannelTransmission},
	}
	for _, tt := range tests {
		t.Run(tt.label.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.label.Channel())
		})
	}
}
