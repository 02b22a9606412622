package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spt/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount())
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// trackItem wraps [models.PlaylistTrack] to implement [list.Item].
type trackItem struct {
	item models.PlaylistTrack
}

func (i trackItem) FilterValue() string { return i.item.Track.Name }
func (i trackItem) Title() string       { return i.item.Track.Name }
func (i trackItem) Description() string {
	desc := i.item.Track.Artist()
	if i.item.Track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Track.Album.Name)
	}
	return desc
}
