// Package ui implements an interactive terminal interface using
// bubbletea's Elm architecture.
//
// The TUI provides a two-view browsing workflow:
//  1. [PlaylistListView] : browse the user's Spotify playlists
//  2. [TrackListView] : inspect the tracks of a selected playlist
//
// The [Model] implements the standard Init/Update/View pattern; playlist
// and track fetches run as [tea.Cmd] values so the interface stays
// responsive while the API calls block.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
