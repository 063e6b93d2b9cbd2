package models

import "strings"

// Channel is the closed set of publishing targets a PublishItem resolves to.
type Channel int

const (
	ChannelMock Channel = iota
	ChannelWordPress
	ChannelThreads
	ChannelFacebook
)

// ResolveChannel matches a free-form channel tag case-insensitively by
// substring. forceWordPress mirrors the post_to_wp flag.
func ResolveChannel(tag string, forceWordPress bool) Channel {
	t := strings.ToLower(tag)
	switch {
	case strings.Contains(t, PlatformWordPress) || forceWordPress:
		return ChannelWordPress
	case strings.Contains(t, PlatformThreads):
		return ChannelThreads
	case strings.Contains(t, PlatformFacebook):
		return ChannelFacebook
	default:
		return ChannelMock
	}
}
