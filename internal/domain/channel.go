package domain

import (
	"fmt"
	"strings"
)

// Channel identifies a Play distribution track. Stable is the mandatory
// channel: every app is assumed to exist there and its failures abort a
// request. Beta and Alpha are optional and best-effort.
type Channel int

const (
	ChannelStable Channel = iota
	ChannelBeta
	ChannelAlpha
)

// ErrUnknownChannel is returned by ParseChannel for names outside the
// closed channel set.
var ErrUnknownChannel = fmt.Errorf("unknown channel")

// Channels returns all channels in precedence order, mandatory first.
func Channels() []Channel {
	return []Channel{ChannelStable, ChannelBeta, ChannelAlpha}
}

// OptionalChannels returns the optional channels in precedence order.
func OptionalChannels() []Channel {
	return []Channel{ChannelBeta, ChannelAlpha}
}

// Mandatory reports whether failures on this channel are fatal to a request.
func (c Channel) Mandatory() bool {
	return c == ChannelStable
}

func (c Channel) String() string {
	switch c {
	case ChannelStable:
		return "stable"
	case ChannelBeta:
		return "beta"
	case ChannelAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel maps a channel name to its Channel value. Matching is
// case-insensitive.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "stable":
		return ChannelStable, nil
	case "beta":
		return ChannelBeta, nil
	case "alpha":
		return ChannelAlpha, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
	}
}
